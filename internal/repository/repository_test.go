package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func newTestStore(mt *mtest.T) *Store {
	return NewStore(mt.DB, time.Second)
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func chatDoc(id primitive.ObjectID, participants []string, messages ...primitive.ObjectID) bson.D {
	parts := bson.A{}
	for _, p := range participants {
		parts = append(parts, p)
	}
	msgs := bson.A{}
	for _, m := range messages {
		msgs = append(msgs, m)
	}
	now := time.Now().UTC()
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "participants", Value: parts},
		{Key: "messages", Value: msgs},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func writeError(msg string) bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: msg})
}

func commandError(msg string) bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: msg})
}
