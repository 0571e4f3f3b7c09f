package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a kind of contribution (cooking, cleaning, errands, ...).
// Each category carries the base point value assigned to its activities.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Icon       string             `bson:"icon" json:"icon"`
	BasePoints int                `bson:"basePoints" json:"basePoints"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Activity is a single logged contribution with a point value and timestamp
type Activity struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID    primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Points        int                `bson:"points" json:"points"`
	CompletedAt   time.Time          `bson:"completedAt" json:"completedAt"`
	IsAiSuggested bool               `bson:"isAiSuggested" json:"isAiSuggested"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
