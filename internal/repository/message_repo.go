package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoMessageRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewMessageRepository(s *Store) MessageRepository {
	return &mongoMessageRepo{col: s.db.Collection(messagesCollection), timeout: s.opTimeout}
}

func (r *mongoMessageRepo) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := *msg
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.MsgDateTime.IsZero() {
		doc.MsgDateTime = time.Now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByIDs returns the messages in the order of ids; unknown ids are skipped.
func (r *mongoMessageRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Message, error) {
	if len(ids) == 0 {
		return []models.Message{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []models.Message
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Message, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	out := make([]models.Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *mongoMessageRepo) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
