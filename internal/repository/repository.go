package repository

//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"errors"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) (*models.User, error)
	UpdateBiography(ctx context.Context, username, biography string) (*models.User, error)
	Delete(ctx context.Context, username string) (*models.User, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Message, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) (*models.Chat, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	PushMessage(ctx context.Context, chatID, messageID primitive.ObjectID) (*models.Chat, error)
	PushParticipant(ctx context.Context, chatID primitive.ObjectID, username string) (*models.Chat, error)
	FindByParticipants(ctx context.Context, usernames []string) ([]models.Chat, error)
}
