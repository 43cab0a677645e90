package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Todo represents a todo item owned by the user that created it.
type Todo struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Text        string        `bson:"text"`
	Completed   bool          `bson:"completed"`
	CompletedAt *time.Time    `bson:"completed_at"`
	CreatedBy   bson.ObjectID `bson:"created_by"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}
