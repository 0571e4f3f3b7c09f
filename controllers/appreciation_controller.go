package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"appreciatemate/internal/ratelimit"
	"appreciatemate/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SendAppreciationRequest represents a thank-you message
type SendAppreciationRequest struct {
	ToUserID   string `json:"toUserId" binding:"required"`
	ActivityID string `json:"activityId,omitempty"`
	Message    string `json:"message" binding:"required"`
}

// SendAppreciation sends a thank-you message to another user
func SendAppreciation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SendAppreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	toUserID, err := primitive.ObjectIDFromHex(req.ToUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient ID"})
		return
	}
	if toUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot appreciate yourself"})
		return
	}

	config := ratelimit.DefaultRateLimitConfig()
	allowed, err := rateLimiter.CheckAppreciationRateLimit(userID.Hex(), config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recipient, err := store.GetUserByID(ctx, toUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up recipient"})
		return
	}
	if recipient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		return
	}

	appreciation := &models.Appreciation{
		FromUserID: userID,
		ToUserID:   toUserID,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}
	if req.ActivityID != "" {
		activityID, err := primitive.ObjectIDFromHex(req.ActivityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
			return
		}
		appreciation.ActivityID = activityID
	}

	appreciation, err = store.CreateAppreciation(ctx, appreciation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send appreciation"})
		return
	}

	if err := rateLimiter.RecordAppreciation(userID.Hex(), config); err != nil {
		log.Printf("Error recording appreciation for rate limiting: %v", err)
		// Don't fail the request, the appreciation was already sent
	}

	c.JSON(http.StatusCreated, appreciation)
}

// GetReceivedAppreciations lists the appreciations sent to the user
func GetReceivedAppreciations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	appreciations, err := store.GetAppreciationsByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appreciations"})
		return
	}
	if appreciations == nil {
		appreciations = []models.Appreciation{}
	}

	c.JSON(http.StatusOK, gin.H{"appreciations": appreciations, "total": len(appreciations)})
}
