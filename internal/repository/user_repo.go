package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(s *Store) UserRepository {
	return &mongoUserRepo{col: s.db.Collection(usersCollection), timeout: s.opTimeout}
}

func (r *mongoUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdatePassword(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return r.set(ctx, username, bson.M{"password": passwordHash})
}

func (r *mongoUserRepo) UpdateBiography(ctx context.Context, username, biography string) (*models.User, error) {
	return r.set(ctx, username, bson.M{"biography": biography})
}

func (r *mongoUserRepo) set(ctx context.Context, username string, fields bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"username": username},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err := r.col.FindOneAndDelete(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
