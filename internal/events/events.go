package events

//go:generate go run go.uber.org/mock/mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ChatCreated      Type = "chat.created"
	MessageAdded     Type = "chat.message_added"
	ParticipantAdded Type = "chat.participant_added"
	UserDeleted      Type = "user.deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	ChatID     string    `json:"chatId,omitempty"`
	Username   string    `json:"username,omitempty"`
	MessageID  string    `json:"messageId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New stamps a fresh event id and the current UTC time.
func New(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// Key is the partition key: the chat id, or the username for user events.
func (e Event) Key() string {
	if e.ChatID != "" {
		return e.ChatID
	}
	return e.Username
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
