package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username   string             `bson:"username" json:"username"`
	Password   string             `bson:"password" json:"-"`
	Biography  string             `bson:"biography" json:"biography"`
	DateJoined time.Time          `bson:"dateJoined" json:"dateJoined"`
}

// Safe returns a copy of the user without the password hash.
func (u User) Safe() User {
	u.Password = ""
	return u
}
