package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(username, bio string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "username", Value: username},
		{Key: "password", Value: "hash"},
		{Key: "biography", Value: bio},
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch, userDoc("alice", "hi")))

		u, err := repo.FindByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, "alice", u.Username)
		assert.Equal(mt, "hi", u.Biography)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, usersCollection), mtest.FirstBatch))

		u, err := repo.FindByUsername(context.Background(), "ghost")
		require.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, u)
	})

	mt.Run("store error", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(commandError("boom"))

		_, err := repo.FindByUsername(context.Background(), "alice")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestUserRepository_UpdateBiography(t *testing.T) {
	mt := newMockT(t)

	mt.Run("updated", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc("alice", "new bio")}))

		u, err := repo.UpdateBiography(context.Background(), "alice", "new bio")
		require.NoError(mt, err)
		assert.Equal(mt, "new bio", u.Biography)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "alice", cmd.Lookup("query", "username").StringValue())
		assert.Equal(mt, "new bio", cmd.Lookup("update", "$set", "biography").StringValue())
	})

	mt.Run("missing user", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateBiography(context.Background(), "ghost", "x")
		require.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mt := newMockT(t)

	mt.Run("sets hash", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc("alice", "")}))

		_, err := repo.UpdatePassword(context.Background(), "alice", "$2a$hash")
		require.NoError(mt, err)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, "$2a$hash", cmd.Lookup("update", "$set", "password").StringValue())
	})
}

func TestUserRepository_Delete(t *testing.T) {
	mt := newMockT(t)

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc("alice", "")}))

		u, err := repo.Delete(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, "alice", u.Username)
	})

	mt.Run("missing user", func(mt *mtest.T) {
		repo := NewUserRepository(newTestStore(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(context.Background(), "ghost")
		require.ErrorIs(mt, err, ErrNotFound)
	})
}
