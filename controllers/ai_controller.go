package controllers

import (
	"context"
	"net/http"
	"time"

	"appreciatemate/services"

	"github.com/gin-gonic/gin"
)

// GetSuggestions returns AI-generated activity suggestions for the user.
// When the model is unreachable the response still succeeds with fallback
// suggestions.
func GetSuggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suggestions, err := services.GenerateActivitySuggestions(ctx, store, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// GetInsights returns AI-detected patterns in the user's activity history
func GetInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	insights, err := services.GenerateInsights(ctx, store, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
