package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"appreciatemate/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// activityHistoryLimit bounds how much history the achievement evaluator
// pulls when counting category and time-of-day qualifications. Counts are
// therefore taken over the most recent 1000 activities, not all time: a
// threshold not reached within that window will not fire until qualifying
// activities appear inside it.
const activityHistoryLimit = 1000

// Storage is the persistence collaborator the gamification engine runs
// against. The production implementation lives in db; tests use an
// in-memory fake.
type Storage interface {
	GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error)
	CreateUserStats(ctx context.Context, stats *models.UserStats) (*models.UserStats, error)
	UpdateUserStats(ctx context.Context, stats *models.UserStats) (*models.UserStats, error)
	GetActivitiesByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error)
	GetActivitiesByUserBetween(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Activity, error)
	GetActivityCategory(ctx context.Context, categoryID primitive.ObjectID) (*models.Category, error)
	GetAchievements(ctx context.Context) ([]models.Achievement, error)
	GetUserAchievements(ctx context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error)
	AwardAchievement(ctx context.Context, award *models.UserAchievement) (*models.UserAchievement, error)
	GetUserMilestones(ctx context.Context, userID primitive.ObjectID) ([]models.Milestone, error)
	CompleteMilestone(ctx context.Context, milestoneID primitive.ObjectID, completedAt time.Time) (*models.Milestone, error)
	CreateMilestone(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error)
	GetAppreciationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appreciation, error)
}

// UserLocker serializes stats updates per user so two activities logged in
// rapid succession (client retry, multi-device) cannot race the
// read-modify-write of UserStats.
type UserLocker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// GamificationService owns level, streak, achievement and milestone
// progression. It is invoked once per newly created activity.
type GamificationService struct {
	store  Storage
	locker UserLocker
	now    func() time.Time
}

var gamificationService *GamificationService

// InitGamificationService sets up the package-level service instance
func InitGamificationService(store Storage, locker UserLocker) {
	gamificationService = NewGamificationService(store, locker)
}

// GetGamificationService returns the package-level service instance
func GetGamificationService() *GamificationService {
	return gamificationService
}

func NewGamificationService(store Storage, locker UserLocker) *GamificationService {
	return &GamificationService{
		store:  store,
		locker: locker,
		now:    time.Now,
	}
}

// InitializeUserStats returns the user's stats document, creating a zeroed
// one if none exists yet. Safe to call when stats already exist; the
// existing document is returned untouched.
func (s *GamificationService) InitializeUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	stats, err := s.store.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	if stats != nil {
		return stats, nil
	}

	stats = &models.UserStats{
		UserID:    userID,
		Level:     1,
		UpdatedAt: s.now(),
	}
	created, err := s.store.CreateUserStats(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to create user stats: %w", err)
	}
	return created, nil
}

// ProcessActivity recomputes the user's aggregate stats for a newly logged
// activity, then runs achievement and milestone evaluation against the
// updated stats. All persistence happens here; the caller only surfaces the
// returned update to the presentation layer.
func (s *GamificationService) ProcessActivity(ctx context.Context, userID primitive.ObjectID, activity *models.Activity) (*models.GamificationUpdate, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "stats:"+userID.Hex())
		if err != nil {
			return nil, fmt.Errorf("failed to acquire stats lock: %w", err)
		}
		defer release()
	}

	stats, err := s.InitializeUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	oldLevel := stats.Level

	stats.TotalPoints += activity.Points
	stats.TotalActivities++
	stats.Level = CalculateLevel(stats.TotalPoints)
	stats.CurrentStreak = s.nextStreak(stats, now)
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityDate = &now
	stats.UpdatedAt = now

	updated, err := s.store.UpdateUserStats(ctx, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to update user stats: %w", err)
	}

	newAchievements, err := s.checkAndAwardAchievements(ctx, userID, updated)
	if err != nil {
		return nil, err
	}

	completedMilestones, err := s.checkAndCompleteMilestones(ctx, userID, updated)
	if err != nil {
		return nil, err
	}

	return &models.GamificationUpdate{
		NewAchievements:     newAchievements,
		CompletedMilestones: completedMilestones,
		LevelUp:             updated.Level > oldLevel,
		OldLevel:            oldLevel,
		NewLevel:            updated.Level,
		StatsUpdated:        updated,
	}, nil
}

// nextStreak applies the calendar-day streak transition: same day leaves the
// streak alone, the next day extends it, a gap of two or more days starts a
// fresh streak of 1 (the triggering activity counts as day one).
func (s *GamificationService) nextStreak(stats *models.UserStats, now time.Time) int {
	if stats.LastActivityDate == nil {
		return 1
	}

	diffDays := daysBetween(*stats.LastActivityDate, now)
	switch {
	case diffDays == 0:
		return stats.CurrentStreak
	case diffDays == 1:
		return stats.CurrentStreak + 1
	default:
		return 1
	}
}

// daysBetween counts whole calendar days between two instants, bucketed by
// local midnight rather than elapsed hours. Rounding absorbs the 23- and
// 25-hour days around DST transitions.
func daysBetween(earlier, later time.Time) int {
	a := startOfDay(earlier.In(later.Location()))
	b := startOfDay(later)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at 00:00:00 in t's location
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// checkAndAwardAchievements evaluates every active, not-yet-earned catalog
// entry against the updated stats and the user's history, awarding each one
// that qualifies. Criteria payloads for the whole candidate set are parsed
// and validated up front so a corrupt catalog entry fails the pass instead
// of being silently skipped.
func (s *GamificationService) checkAndAwardAchievements(ctx context.Context, userID primitive.ObjectID, stats *models.UserStats) ([]models.Achievement, error) {
	achievements, err := s.store.GetAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	earned, err := s.store.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}
	earnedIDs := make(map[primitive.ObjectID]bool, len(earned))
	for _, ua := range earned {
		earnedIDs[ua.AchievementID] = true
	}

	var candidates []models.Achievement
	criteria := make(map[primitive.ObjectID]models.Criteria)
	for _, a := range achievements {
		if earnedIDs[a.ID] {
			continue
		}
		c, err := models.ParseCriteria(a.Type, a.Criteria)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", a.Name, err)
		}
		candidates = append(candidates, a)
		criteria[a.ID] = c
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	history, err := s.store.GetActivitiesByUser(ctx, userID, activityHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %w", err)
	}
	categoryNames := make(map[primitive.ObjectID]string)

	var awarded []models.Achievement
	for _, a := range candidates {
		qualifies, err := s.qualifies(ctx, userID, a.Type, criteria[a.ID], stats, history, categoryNames)
		if err != nil {
			return nil, err
		}
		if !qualifies {
			continue
		}

		award := &models.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			EarnedAt:      s.now(),
			Progress:      100,
			IsNew:         true,
		}
		if _, err := s.store.AwardAchievement(ctx, award); err != nil {
			return nil, fmt.Errorf("failed to award achievement %q: %w", a.Name, err)
		}
		awarded = append(awarded, a)
	}

	return awarded, nil
}

func (s *GamificationService) qualifies(ctx context.Context, userID primitive.ObjectID, achievementType string, c models.Criteria, stats *models.UserStats, history []models.Activity, categoryNames map[primitive.ObjectID]string) (bool, error) {
	switch achievementType {
	case models.AchievementTypePoints:
		return stats.TotalPoints >= c.Threshold, nil

	case models.AchievementTypeActivityCount:
		if c.Category == "" {
			return stats.TotalActivities >= c.Threshold, nil
		}
		// Category-filtered counts compare names exactly here; the
		// category_master branch below compares case-insensitively.
		count, err := s.countCategoryActivities(ctx, history, categoryNames, func(name string) bool {
			return name == c.Category
		})
		if err != nil {
			return false, err
		}
		return count >= c.Threshold, nil

	case models.AchievementTypeStreak:
		return stats.CurrentStreak >= c.Threshold, nil

	case models.AchievementTypeCategoryMaster:
		count, err := s.countCategoryActivities(ctx, history, categoryNames, func(name string) bool {
			return strings.EqualFold(name, c.Category)
		})
		if err != nil {
			return false, err
		}
		return count >= c.Threshold, nil

	case models.AchievementTypeSpecial:
		// Only the first listed condition decides the outcome. The catalog
		// may carry more, but they are never consulted.
		return s.evalSpecialCondition(ctx, userID, c.Conditions[0], stats, history)

	default:
		return false, nil
	}
}

func (s *GamificationService) countCategoryActivities(ctx context.Context, history []models.Activity, categoryNames map[primitive.ObjectID]string, match func(string) bool) (int, error) {
	count := 0
	for _, activity := range history {
		name, ok := categoryNames[activity.CategoryID]
		if !ok {
			category, err := s.store.GetActivityCategory(ctx, activity.CategoryID)
			if err != nil {
				return 0, fmt.Errorf("failed to load category: %w", err)
			}
			if category != nil {
				name = category.Name
			}
			categoryNames[activity.CategoryID] = name
		}
		if name != "" && match(name) {
			count++
		}
	}
	return count, nil
}

func (s *GamificationService) evalSpecialCondition(ctx context.Context, userID primitive.ObjectID, condition string, stats *models.UserStats, history []models.Activity) (bool, error) {
	switch condition {
	case models.ConditionFirstActivity:
		return stats.TotalActivities >= 1, nil

	case models.ConditionWeekendWarrior:
		count := 0
		for _, a := range history {
			wd := a.CompletedAt.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				count++
			}
		}
		return count >= 5, nil

	case models.ConditionEarlyBird:
		return countInHourWindow(history, 5, 9) >= 5, nil

	case models.ConditionNightOwl:
		return countInHourWindow(history, 20, 24) >= 5, nil

	case models.ConditionAppreciationMaster:
		appreciations, err := s.store.GetAppreciationsByUser(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("failed to load appreciations: %w", err)
		}
		return len(appreciations) >= 10, nil

	default:
		return false, nil
	}
}

// countInHourWindow counts activities completed with local hour in
// [startHour, endHour).
func countInHourWindow(history []models.Activity, startHour, endHour int) int {
	count := 0
	for _, a := range history {
		h := a.CompletedAt.Hour()
		if h >= startHour && h < endHour {
			count++
		}
	}
	return count
}

// checkAndCompleteMilestones marks any of the user's open milestones whose
// target is now met. Completion is one-way; already-completed milestones are
// never revisited.
func (s *GamificationService) checkAndCompleteMilestones(ctx context.Context, userID primitive.ObjectID, stats *models.UserStats) ([]models.Milestone, error) {
	milestones, err := s.store.GetUserMilestones(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones: %w", err)
	}

	now := s.now()
	var completed []models.Milestone
	for _, m := range milestones {
		if m.IsCompleted {
			continue
		}

		met := false
		switch m.Type {
		case models.MilestoneTypeWeeklyGoal:
			// The window is the current Sunday-anchored week at evaluation
			// time, not the milestone's own expiresAt.
			weekStart := startOfWeek(now)
			activities, err := s.store.GetActivitiesByUserBetween(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7))
			if err != nil {
				return nil, fmt.Errorf("failed to load weekly activities: %w", err)
			}
			met = len(activities) >= m.TargetValue

		case models.MilestoneTypePoints:
			met = stats.TotalPoints >= m.TargetValue

		case models.MilestoneTypeStreak:
			met = stats.CurrentStreak >= m.TargetValue
		}

		if !met {
			continue
		}

		done, err := s.store.CompleteMilestone(ctx, m.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to complete milestone %q: %w", m.Title, err)
		}
		if done != nil {
			completed = append(completed, *done)
		}
	}

	return completed, nil
}

// CreateDefaultMilestones seeds a user's starter milestones at onboarding: a
// weekly activity goal of 7 and a 100-point "Century Club". Calling it again
// for the same user is a no-op for any default that already exists.
func (s *GamificationService) CreateDefaultMilestones(ctx context.Context, userID primitive.ObjectID) error {
	existing, err := s.store.GetUserMilestones(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load milestones: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, m := range existing {
		have[m.Type+"|"+m.Title] = true
	}

	now := s.now()
	weekExpiry := startOfWeek(now).AddDate(0, 0, 14)
	defaults := []models.Milestone{
		{
			UserID:      userID,
			Type:        models.MilestoneTypeWeeklyGoal,
			Title:       "Weekly Activity Goal",
			Description: "Complete 7 activities this week",
			TargetValue: 7,
			ExpiresAt:   &weekExpiry,
			CreatedAt:   now,
		},
		{
			UserID:      userID,
			Type:        models.MilestoneTypePoints,
			Title:       "Century Club",
			Description: "Earn 100 total points",
			TargetValue: 100,
			CreatedAt:   now,
		},
	}

	for i := range defaults {
		if have[defaults[i].Type+"|"+defaults[i].Title] {
			continue
		}
		if _, err := s.store.CreateMilestone(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("failed to create default milestone %q: %w", defaults[i].Title, err)
		}
	}

	return nil
}
