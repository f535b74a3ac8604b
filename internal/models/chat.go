package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Participants []string             `bson:"participants" json:"participants"`
	Messages     []primitive.ObjectID `bson:"messages" json:"messages"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ChatWithMessages is a chat whose message ids have been resolved, in chat order.
type ChatWithMessages struct {
	Chat
	MessageDocs []Message `json:"messageDocs"`
}

type CreateChatPayload struct {
	Participants []string       `json:"participants" validate:"required,min=1,dive,required"`
	Messages     []MessageInput `json:"messages" validate:"dive"`
}
