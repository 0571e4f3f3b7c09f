package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"appreciatemate/models"
	"appreciatemate/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetStats returns the user's aggregate stats, creating them lazily, with
// the points remaining to the next level.
func GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := services.GetGamificationService().InitializeUserStats(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":              stats,
		"pointsForNextLevel": services.PointsForNextLevel(stats.Level),
		"levelStartsAt":      services.PointsForLevelStart(stats.Level),
	})
}

// AchievementView pairs a catalog entry with the user's earned state
type AchievementView struct {
	models.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
	IsNew    bool       `json:"isNew,omitempty"`
}

// GetAchievements returns the active catalog annotated with the user's
// earned achievements.
func GetAchievements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	catalog, err := store.GetAchievements(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch achievements"})
		return
	}

	earned, err := store.GetUserAchievements(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch earned achievements"})
		return
	}
	earnedByID := make(map[primitive.ObjectID]models.UserAchievement, len(earned))
	for _, ua := range earned {
		earnedByID[ua.AchievementID] = ua
	}

	views := make([]AchievementView, 0, len(catalog))
	for _, a := range catalog {
		view := AchievementView{Achievement: a}
		if ua, ok := earnedByID[a.ID]; ok {
			view.Earned = true
			view.EarnedAt = &ua.EarnedAt
			view.IsNew = ua.IsNew
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"achievements": views})
}

// AcknowledgeAchievements marks all of the user's new achievements as seen
func AcknowledgeAchievements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.MarkAchievementsSeen(ctx, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acknowledge achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Achievements acknowledged"})
}

// GetMilestones returns the user's milestones, open and completed
func GetMilestones(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	milestones, err := store.GetUserMilestones(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch milestones"})
		return
	}
	if milestones == nil {
		milestones = []models.Milestone{}
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	TotalPoints int    `json:"totalPoints"`
	Level       int    `json:"level"`
	CurrentUser bool   `json:"currentUser"`
}

// GetLeaderboard returns the top users by lifetime points
func GetLeaderboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	top, err := store.TopUserStats(ctx, int64(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard data"})
		return
	}

	entries := make([]LeaderboardEntry, 0, len(top))
	for i, stats := range top {
		entry := LeaderboardEntry{
			Rank:        i + 1,
			UserID:      stats.UserID.Hex(),
			TotalPoints: stats.TotalPoints,
			Level:       stats.Level,
			CurrentUser: stats.UserID == userID,
		}

		user, err := store.GetUserByID(ctx, stats.UserID)
		if err == nil && user != nil {
			entry.DisplayName = user.DisplayName
			entry.AvatarURL = user.AvatarURL
			if entry.AvatarURL == "" {
				entry.AvatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + user.DisplayName
			}
		}

		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}
