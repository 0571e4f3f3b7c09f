package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appreciation is a thank-you message sent from one user to another,
// optionally attached to a specific activity.
type Appreciation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FromUserID primitive.ObjectID `bson:"fromUserId" json:"fromUserId"`
	ToUserID   primitive.ObjectID `bson:"toUserId" json:"toUserId"`
	ActivityID primitive.ObjectID `bson:"activityId,omitempty" json:"activityId,omitempty"`
	Message    string             `bson:"message" json:"message"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
