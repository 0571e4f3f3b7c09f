package db

import (
	"context"
	"fmt"
	"time"

	"appreciatemate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the Mongo-backed persistence collaborator for the gamification
// engine and the route layer.
type Store struct {
	db *mongo.Database
}

// NewStore returns a Store over the connected database
func NewStore() *Store {
	return &Store{db: MongoDatabase}
}

// GetUserStats fetches a user's stats document, or nil when none exists yet
func (s *Store) GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	var stats models.UserStats
	err := s.db.Collection("user_stats").FindOne(ctx, bson.M{"userId": userID}).Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) CreateUserStats(ctx context.Context, stats *models.UserStats) (*models.UserStats, error) {
	res, err := s.db.Collection("user_stats").InsertOne(ctx, stats)
	if err != nil {
		return nil, err
	}
	stats.ID = res.InsertedID.(primitive.ObjectID)
	return stats, nil
}

func (s *Store) UpdateUserStats(ctx context.Context, stats *models.UserStats) (*models.UserStats, error) {
	update := bson.M{"$set": bson.M{
		"totalPoints":      stats.TotalPoints,
		"totalActivities":  stats.TotalActivities,
		"currentStreak":    stats.CurrentStreak,
		"longestStreak":    stats.LongestStreak,
		"level":            stats.Level,
		"lastActivityDate": stats.LastActivityDate,
		"updatedAt":        stats.UpdatedAt,
	}}
	_, err := s.db.Collection("user_stats").UpdateOne(ctx, bson.M{"userId": stats.UserID}, update)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetActivitiesByUser returns a user's activities, most recent first
func (s *Store) GetActivitiesByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("activities").Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Store) GetActivitiesByUserBetween(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Activity, error) {
	filter := bson.M{
		"userId":      userID,
		"completedAt": bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := s.db.Collection("activities").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	res, err := s.db.Collection("activities").InsertOne(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = res.InsertedID.(primitive.ObjectID)
	return activity, nil
}

// GetActivityCategory looks up a category by id, or nil when absent
func (s *Store) GetActivityCategory(ctx context.Context, categoryID primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.db.Collection("categories").FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.db.Collection("categories").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetAchievements returns the active achievement catalog
func (s *Store) GetAchievements(ctx context.Context) ([]models.Achievement, error) {
	cursor, err := s.db.Collection("achievements").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var achievements []models.Achievement
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (s *Store) GetUserAchievements(ctx context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error) {
	cursor, err := s.db.Collection("user_achievements").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earned []models.UserAchievement
	if err := cursor.All(ctx, &earned); err != nil {
		return nil, err
	}
	return earned, nil
}

func (s *Store) AwardAchievement(ctx context.Context, award *models.UserAchievement) (*models.UserAchievement, error) {
	res, err := s.db.Collection("user_achievements").InsertOne(ctx, award)
	if err != nil {
		return nil, err
	}
	award.ID = res.InsertedID.(primitive.ObjectID)
	return award, nil
}

// MarkAchievementsSeen flips the isNew flag for all of a user's unseen
// achievements. The transition is one-way.
func (s *Store) MarkAchievementsSeen(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.db.Collection("user_achievements").UpdateMany(ctx,
		bson.M{"userId": userID, "isNew": true},
		bson.M{"$set": bson.M{"isNew": false}},
	)
	return err
}

func (s *Store) GetUserMilestones(ctx context.Context, userID primitive.ObjectID) ([]models.Milestone, error) {
	cursor, err := s.db.Collection("milestones").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var milestones []models.Milestone
	if err := cursor.All(ctx, &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

// CompleteMilestone marks a milestone completed exactly once. A milestone
// already completed is left untouched and nil is returned.
func (s *Store) CompleteMilestone(ctx context.Context, milestoneID primitive.ObjectID, completedAt time.Time) (*models.Milestone, error) {
	res := s.db.Collection("milestones").FindOneAndUpdate(ctx,
		bson.M{"_id": milestoneID, "isCompleted": false},
		bson.M{"$set": bson.M{"isCompleted": true, "completedAt": completedAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var milestone models.Milestone
	err := res.Decode(&milestone)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (s *Store) CreateMilestone(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	res, err := s.db.Collection("milestones").InsertOne(ctx, milestone)
	if err != nil {
		return nil, err
	}
	milestone.ID = res.InsertedID.(primitive.ObjectID)
	return milestone, nil
}

// GetAppreciationsByUser returns the appreciations a user has received
func (s *Store) GetAppreciationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appreciation, error) {
	cursor, err := s.db.Collection("appreciations").Find(ctx, bson.M{"toUserId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appreciations []models.Appreciation
	if err := cursor.All(ctx, &appreciations); err != nil {
		return nil, err
	}
	return appreciations, nil
}

func (s *Store) CreateAppreciation(ctx context.Context, appreciation *models.Appreciation) (*models.Appreciation, error) {
	res, err := s.db.Collection("appreciations").InsertOne(ctx, appreciation)
	if err != nil {
		return nil, err
	}
	appreciation.ID = res.InsertedID.(primitive.ObjectID)
	return appreciation, nil
}

// GetUserByEmail fetches a user by email, or nil when absent
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := s.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, displayName, avatarURL string) error {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	set := update["$set"].(bson.M)
	if displayName != "" {
		set["displayName"] = displayName
	}
	if avatarURL != "" {
		set["avatarUrl"] = avatarURL
	}
	res, err := s.db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// TopUserStats returns stats documents ordered by total points, for the
// leaderboard.
func (s *Store) TopUserStats(ctx context.Context, limit int64) ([]models.UserStats, error) {
	opts := options.Find().SetSort(bson.D{{Key: "totalPoints", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection("user_stats").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.UserStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
