package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/fathima-sithara/chat-profile-service/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ChatService struct {
	users    *UserLookup
	messages repository.MessageRepository
	chats    repository.ChatRepository
	events   events.Publisher
	validate *validator.Validate
	log      *zap.Logger
}

func NewChatService(
	users *UserLookup,
	messages repository.MessageRepository,
	chats repository.ChatRepository,
	pub events.Publisher,
	log *zap.Logger,
) *ChatService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ChatService{
		users:    users,
		messages: messages,
		chats:    chats,
		events:   pub,
		validate: validator.New(),
		log:      log,
	}
}

// CreateMessage stores a message after checking that its sender exists.
func (s *ChatService) CreateMessage(ctx context.Context, in models.MessageInput) (*models.Message, error) {
	msg, _, err := s.createMessage(ctx, in, primitive.NewObjectID())
	return msg, err
}

// createMessage reports whether the insert was sent, since a failed insert
// may still have been applied by the server.
func (s *ChatService) createMessage(ctx context.Context, in models.MessageInput, id primitive.ObjectID) (*models.Message, bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, false, invalidInput(ErrInvalidInput, fmt.Sprintf("Invalid message: %v", err))
	}

	if err := s.users.RequireUser(ctx, in.MsgFrom); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, false, invalidInput(ErrInvalidSender, "Message sender is invalid.")
		}
		return nil, false, err
	}

	msg, err := s.messages.Create(ctx, &models.Message{
		ID:          id,
		Msg:         in.Msg,
		MsgFrom:     in.MsgFrom,
		MsgDateTime: in.MsgDateTime,
		Type:        in.Type,
	})
	if err != nil {
		return nil, true, persistence("Error creating message", err)
	}
	return msg, true, nil
}

// SaveChat creates every message of the payload and then the chat that
// references them. If a later step fails, the messages created so far are
// deleted again before the error is returned. Message ids are assigned up
// front so an insert that failed on the client but landed on the server is
// deleted too.
func (s *ChatService) SaveChat(ctx context.Context, payload models.CreateChatPayload) (*models.Chat, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, invalidInput(ErrInvalidInput, fmt.Sprintf("Invalid chat: %v", err))
	}

	created := make([]primitive.ObjectID, 0, len(payload.Messages))
	for _, in := range payload.Messages {
		id := primitive.NewObjectID()
		msg, sent, err := s.createMessage(ctx, in, id)
		if err != nil {
			if sent {
				created = append(created, id)
			}
			s.rollbackMessages(ctx, created)
			return nil, err
		}
		created = append(created, msg.ID)
	}

	chat, err := s.chats.Create(ctx, &models.Chat{
		Participants: payload.Participants,
		Messages:     created,
	})
	if err != nil {
		s.rollbackMessages(ctx, created)
		return nil, persistence("Error saving chat", err)
	}

	ev := events.New(events.ChatCreated)
	ev.ChatID = chat.ID.Hex()
	s.publish(ctx, ev)
	return chat, nil
}

func (s *ChatService) rollbackMessages(ctx context.Context, ids []primitive.ObjectID) {
	if len(ids) == 0 {
		return
	}

	// The request may already be cancelled; the cleanup must still run.
	n, err := s.messages.DeleteByIDs(context.WithoutCancel(ctx), ids)
	if err != nil {
		s.log.Error("chat rollback failed, messages left behind",
			zap.Strings("message_ids", hexIDs(ids)),
			zap.Error(err),
		)
		return
	}
	s.log.Warn("chat rollback removed messages", zap.Int64("deleted", n), zap.Int("created", len(ids)))
}

func (s *ChatService) AddMessageToChat(ctx context.Context, chatID, messageID string) (*models.Chat, error) {
	cid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, notFound(ErrChatNotFound, "Chat not found")
	}
	mid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, invalidInput(ErrInvalidInput, "Invalid message id.")
	}

	chat, err := s.chats.PushMessage(ctx, cid, mid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrChatNotFound, "Chat not found")
	}
	if err != nil {
		return nil, persistence("Error adding message to chat", err)
	}

	ev := events.New(events.MessageAdded)
	ev.ChatID = chat.ID.Hex()
	ev.MessageID = mid.Hex()
	s.publish(ctx, ev)
	return chat, nil
}

const participantMissMessage = "Chat not found or user already a participant."

// AddParticipantToChat appends username unless it is already a participant.
// Both "no such chat" and "already a participant" carry the same message; the
// error kind tells them apart.
func (s *ChatService) AddParticipantToChat(ctx context.Context, chatID, username string) (*models.Chat, error) {
	if err := s.users.RequireUser(ctx, username); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, notFound(ErrUserNotFound, "User does not exist.")
		}
		return nil, err
	}

	cid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, notFound(ErrChatNotFound, participantMissMessage)
	}

	chat, err := s.chats.PushParticipant(ctx, cid, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.classifyParticipantMiss(ctx, cid)
	}
	if err != nil {
		return nil, persistence("Error adding participant to chat", err)
	}

	ev := events.New(events.ParticipantAdded)
	ev.ChatID = chat.ID.Hex()
	ev.Username = username
	s.publish(ctx, ev)
	return chat, nil
}

func (s *ChatService) classifyParticipantMiss(ctx context.Context, chatID primitive.ObjectID) error {
	exists, err := s.chats.Exists(ctx, chatID)
	if err != nil {
		return persistence("Error adding participant to chat", err)
	}
	if exists {
		return conflict(ErrAlreadyParticipant, participantMissMessage)
	}
	return notFound(ErrChatNotFound, participantMissMessage)
}

// GetChatsByParticipants returns the chats that include every username. It
// never fails: store errors are logged and reported as no chats.
func (s *ChatService) GetChatsByParticipants(ctx context.Context, usernames []string) []models.Chat {
	usernames = lo.Compact(usernames)
	if len(usernames) == 0 {
		return []models.Chat{}
	}

	chats, err := s.chats.FindByParticipants(ctx, usernames)
	if err != nil {
		s.log.Warn("listing chats failed", zap.Strings("participants", usernames), zap.Error(err))
		return []models.Chat{}
	}
	if chats == nil {
		return []models.Chat{}
	}
	return chats
}

// GetChat returns the chat with its messages resolved in chat order.
func (s *ChatService) GetChat(ctx context.Context, chatID string) (*models.ChatWithMessages, error) {
	cid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, notFound(ErrChatNotFound, "Chat not found")
	}

	chat, err := s.chats.FindByID(ctx, cid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrChatNotFound, "Chat not found")
	}
	if err != nil {
		return nil, persistence("Error retrieving chat", err)
	}

	msgs, err := s.messages.FindByIDs(ctx, chat.Messages)
	if err != nil {
		return nil, persistence("Error retrieving chat", err)
	}
	return &models.ChatWithMessages{Chat: *chat, MessageDocs: msgs}, nil
}

func (s *ChatService) publish(ctx context.Context, e events.Event) {
	publishEvent(ctx, s.events, s.log, e)
}

func hexIDs(ids []primitive.ObjectID) []string {
	return lo.Map(ids, func(id primitive.ObjectID, _ int) string { return id.Hex() })
}
