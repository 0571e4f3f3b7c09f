package controllers

import (
	"appreciatemate/db"
	"appreciatemate/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	store       *db.Store
	rateLimiter *ratelimit.RateLimiter
)

// Init wires the controllers to the storage layer and rate limiter. Called
// once at startup after the database connection is up.
func Init(s *db.Store) {
	store = s
	rateLimiter = ratelimit.NewRateLimiter()
}

// currentUserID reads the authenticated user's id set by the auth middleware
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
