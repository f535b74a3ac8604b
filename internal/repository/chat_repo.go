package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoChatRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewChatRepository(s *Store) ChatRepository {
	return &mongoChatRepo{col: s.db.Collection(chatsCollection), timeout: s.opTimeout}
}

func (r *mongoChatRepo) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := *chat
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.Participants == nil {
		doc.Participants = []string{}
	}
	if doc.Messages == nil {
		doc.Messages = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoChatRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c models.Chat
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoChatRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoChatRepo) PushMessage(ctx context.Context, chatID, messageID primitive.ObjectID) (*models.Chat, error) {
	return r.push(ctx, bson.M{"_id": chatID}, bson.M{"messages": messageID})
}

// PushParticipant only matches when username is not already a participant.
func (r *mongoChatRepo) PushParticipant(ctx context.Context, chatID primitive.ObjectID, username string) (*models.Chat, error) {
	filter := bson.M{"_id": chatID, "participants": bson.M{"$ne": username}}
	return r.push(ctx, filter, bson.M{"participants": username})
}

func (r *mongoChatRepo) push(ctx context.Context, filter, fields bson.M) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{
		"$push": fields,
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	var c models.Chat
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByParticipants returns chats whose participants contain every username.
func (r *mongoChatRepo) FindByParticipants(ctx context.Context, usernames []string) ([]models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"participants": bson.M{"$all": usernames}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chats []models.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}
