package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"appreciatemate/models"
	"appreciatemate/services"
	"appreciatemate/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateActivityRequest represents a new logged contribution
type CreateActivityRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description,omitempty"`
	CategoryID    string     `json:"categoryId" binding:"required"`
	Complexity    int        `json:"complexity,omitempty"` // 1-3, defaults to 1
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	IsAiSuggested bool       `json:"isAiSuggested,omitempty"`
}

const complexityBonus = 5

// CreateActivity logs a new activity, assigns its points from the category
// and complexity, and runs the gamification engine. The response carries the
// created activity plus the resulting gamification update so the client can
// show unlock and level-up celebrations.
func CreateActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if req.Complexity < 1 {
		req.Complexity = 1
	}
	if req.Complexity > 3 {
		req.Complexity = 3
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, err := store.GetActivityCategory(ctx, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	completedAt := time.Now()
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	activity := &models.Activity{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    category.ID,
		Points:        category.BasePoints + (req.Complexity-1)*complexityBonus,
		CompletedAt:   completedAt,
		IsAiSuggested: req.IsAiSuggested,
		CreatedAt:     time.Now(),
	}

	activity, err = store.CreateActivity(ctx, activity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}

	update, err := services.GetGamificationService().ProcessActivity(ctx, userID, activity)
	if err != nil {
		log.Printf("Error processing gamification for activity %s: %v", activity.ID.Hex(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gamification state"})
		return
	}

	websocket.BroadcastUpdate(userID.Hex(), update)

	c.JSON(http.StatusCreated, gin.H{
		"activity":     activity,
		"gamification": update,
	})
}

// GetActivities returns the user's activities, most recent first
func GetActivities(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	activities, err := store.GetActivitiesByUser(ctx, userID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities, "total": len(activities)})
}

// GetCategories returns the activity category catalog
func GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categories, err := store.GetCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
