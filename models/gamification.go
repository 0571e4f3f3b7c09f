package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Achievement types understood by the evaluator
const (
	AchievementTypePoints         = "points"
	AchievementTypeActivityCount  = "activity_count"
	AchievementTypeStreak         = "streak"
	AchievementTypeCategoryMaster = "category_master"
	AchievementTypeSpecial        = "special"
)

// Named conditions for "special" achievements
const (
	ConditionFirstActivity      = "first_activity"
	ConditionWeekendWarrior     = "weekend_warrior"
	ConditionEarlyBird          = "early_bird"
	ConditionNightOwl           = "night_owl"
	ConditionAppreciationMaster = "appreciation_master"
)

// Milestone types
const (
	MilestoneTypeWeeklyGoal = "weekly_goal"
	MilestoneTypePoints     = "point_milestone"
	MilestoneTypeStreak     = "streak_milestone"
)

// UserStats holds a user's aggregate gamification state, one document per user
type UserStats struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	TotalPoints      int                `bson:"totalPoints" json:"totalPoints"`
	TotalActivities  int                `bson:"totalActivities" json:"totalActivities"`
	CurrentStreak    int                `bson:"currentStreak" json:"currentStreak"`
	LongestStreak    int                `bson:"longestStreak" json:"longestStreak"`
	Level            int                `bson:"level" json:"level"`
	LastActivityDate *time.Time         `bson:"lastActivityDate,omitempty" json:"lastActivityDate,omitempty"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Achievement is a catalog entry describing a one-time-unlockable badge
type Achievement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	Type        string             `bson:"type" json:"type"`
	Criteria    string             `bson:"criteria" json:"criteria"`
	Points      int                `bson:"points" json:"points"`
	Rarity      string             `bson:"rarity" json:"rarity"` // "common", "uncommon", "rare", "epic", "legendary"
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Criteria is the structured predicate attached to an achievement. It is
// stored serialized on the catalog entry and parsed with ParseCriteria;
// which fields are meaningful depends on the achievement type.
type Criteria struct {
	Threshold  int      `json:"threshold,omitempty"`
	Category   string   `json:"category,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// ParseCriteria decodes and validates an achievement's criteria payload.
// A payload that fails to decode, or that is missing the fields its
// achievement type requires, is a catalog data error and is reported as such.
func ParseCriteria(achievementType, raw string) (Criteria, error) {
	var c Criteria
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Criteria{}, fmt.Errorf("malformed achievement criteria: %w", err)
	}

	switch achievementType {
	case AchievementTypePoints, AchievementTypeStreak:
		if c.Threshold <= 0 {
			return Criteria{}, fmt.Errorf("achievement criteria for type %q requires a positive threshold", achievementType)
		}
	case AchievementTypeActivityCount:
		if c.Threshold <= 0 {
			return Criteria{}, fmt.Errorf("achievement criteria for type %q requires a positive threshold", achievementType)
		}
	case AchievementTypeCategoryMaster:
		if c.Threshold <= 0 || c.Category == "" {
			return Criteria{}, fmt.Errorf("achievement criteria for type %q requires a category and a positive threshold", achievementType)
		}
	case AchievementTypeSpecial:
		if len(c.Conditions) == 0 {
			return Criteria{}, fmt.Errorf("achievement criteria for type %q requires at least one condition", achievementType)
		}
	}

	return c, nil
}

// UserAchievement records a badge earned by a user. At most one exists per
// (user, achievement) pair; an earned achievement never fires again.
type UserAchievement struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	AchievementID primitive.ObjectID `bson:"achievementId" json:"achievementId"`
	EarnedAt      time.Time          `bson:"earnedAt" json:"earnedAt"`
	Progress      int                `bson:"progress" json:"progress"`
	IsNew         bool               `bson:"isNew" json:"isNew"`
}

// Milestone is a per-user goal with a numeric target. Completion is one-way.
type Milestone struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Type         string             `bson:"type" json:"type"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	TargetValue  int                `bson:"targetValue" json:"targetValue"`
	CurrentValue int                `bson:"currentValue" json:"currentValue"`
	IsCompleted  bool               `bson:"isCompleted" json:"isCompleted"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ExpiresAt    *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// GamificationUpdate is the combined result of processing one new activity,
// consumed by the presentation layer to drive celebratory UI.
type GamificationUpdate struct {
	NewAchievements     []Achievement `json:"newAchievements"`
	CompletedMilestones []Milestone   `json:"completedMilestones"`
	LevelUp             bool          `json:"levelUp"`
	OldLevel            int           `json:"oldLevel"`
	NewLevel            int           `json:"newLevel"`
	StatsUpdated        *UserStats    `json:"statsUpdated"`
}

// GamificationEvent is a celebration event broadcast over WebSocket
type GamificationEvent struct {
	Type      string    `json:"type"` // "achievement_unlocked", "milestone_completed", "level_up"
	UserID    string    `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Rarity    string    `json:"rarity,omitempty"`
	NewLevel  int       `json:"newLevel,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
