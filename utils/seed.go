package utils

import (
	"context"
	"time"

	"appreciatemate/db"
	"appreciatemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// SeedCategories creates the default activity categories when the
// collection is empty.
func SeedCategories() {
	collection := db.GetCollection("categories")
	count, _ := collection.CountDocuments(context.Background(), bson.M{})
	if count > 0 {
		return
	}

	categories := []models.Category{
		{Name: "Cooking", Icon: "🍳", BasePoints: 15, CreatedAt: time.Now()},
		{Name: "Cleaning", Icon: "🧹", BasePoints: 10, CreatedAt: time.Now()},
		{Name: "Errands", Icon: "🛒", BasePoints: 10, CreatedAt: time.Now()},
		{Name: "Childcare", Icon: "🧸", BasePoints: 20, CreatedAt: time.Now()},
		{Name: "Emotional Support", Icon: "💜", BasePoints: 15, CreatedAt: time.Now()},
		{Name: "Planning", Icon: "📅", BasePoints: 10, CreatedAt: time.Now()},
	}

	var documents []interface{}
	for _, category := range categories {
		documents = append(documents, category)
	}
	collection.InsertMany(context.Background(), documents)
}

// SeedAchievements creates the default achievement catalog when the
// collection is empty.
func SeedAchievements() {
	collection := db.GetCollection("achievements")
	count, _ := collection.CountDocuments(context.Background(), bson.M{})
	if count > 0 {
		return
	}

	achievements := []models.Achievement{
		{
			Name:        "First Steps",
			Description: "Log your first activity",
			Icon:        "👣",
			Type:        models.AchievementTypeSpecial,
			Criteria:    `{"conditions":["first_activity"]}`,
			Points:      10,
			Rarity:      "common",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Century Scorer",
			Description: "Earn 100 total points",
			Icon:        "💯",
			Type:        models.AchievementTypePoints,
			Criteria:    `{"threshold":100}`,
			Points:      20,
			Rarity:      "common",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Point Collector",
			Description: "Earn 500 total points",
			Icon:        "🏆",
			Type:        models.AchievementTypePoints,
			Criteria:    `{"threshold":500}`,
			Points:      50,
			Rarity:      "uncommon",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Busy Bee",
			Description: "Log 25 activities",
			Icon:        "🐝",
			Type:        models.AchievementTypeActivityCount,
			Criteria:    `{"threshold":25}`,
			Points:      25,
			Rarity:      "uncommon",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Week Warrior",
			Description: "Keep a 7-day streak going",
			Icon:        "🔥",
			Type:        models.AchievementTypeStreak,
			Criteria:    `{"threshold":7}`,
			Points:      30,
			Rarity:      "rare",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Head Chef",
			Description: "Complete 10 cooking activities",
			Icon:        "👨‍🍳",
			Type:        models.AchievementTypeCategoryMaster,
			Criteria:    `{"threshold":10,"category":"Cooking"}`,
			Points:      40,
			Rarity:      "rare",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Weekend Warrior",
			Description: "Complete 5 activities on weekends",
			Icon:        "🎉",
			Type:        models.AchievementTypeSpecial,
			Criteria:    `{"conditions":["weekend_warrior"]}`,
			Points:      25,
			Rarity:      "uncommon",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Early Bird",
			Description: "Complete 5 activities before 9am",
			Icon:        "🌅",
			Type:        models.AchievementTypeSpecial,
			Criteria:    `{"conditions":["early_bird"]}`,
			Points:      25,
			Rarity:      "uncommon",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Night Owl",
			Description: "Complete 5 activities after 8pm",
			Icon:        "🦉",
			Type:        models.AchievementTypeSpecial,
			Criteria:    `{"conditions":["night_owl"]}`,
			Points:      25,
			Rarity:      "uncommon",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
		{
			Name:        "Appreciation Magnet",
			Description: "Receive 10 appreciations",
			Icon:        "💝",
			Type:        models.AchievementTypeSpecial,
			Criteria:    `{"conditions":["appreciation_master"]}`,
			Points:      50,
			Rarity:      "epic",
			IsActive:    true,
			CreatedAt:   time.Now(),
		},
	}

	var documents []interface{}
	for _, achievement := range achievements {
		documents = append(documents, achievement)
	}
	collection.InsertMany(context.Background(), documents)
}
