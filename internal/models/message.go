package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageTypeDirect = "direct"
	MessageTypeGlobal = "global"
)

type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Msg         string             `bson:"msg" json:"msg"`
	MsgFrom     string             `bson:"msgFrom" json:"msgFrom"`
	MsgDateTime time.Time          `bson:"msgDateTime" json:"msgDateTime"`
	Type        string             `bson:"type" json:"type"`
}

// MessageInput is an unsaved message as received from a caller.
type MessageInput struct {
	Msg         string    `json:"msg" validate:"required"`
	MsgFrom     string    `json:"msgFrom" validate:"required"`
	MsgDateTime time.Time `json:"msgDateTime"`
	Type        string    `json:"type" validate:"required,oneof=direct global"`
}
