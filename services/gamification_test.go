package services

import (
	"context"
	"testing"
	"time"

	"appreciatemate/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Storage used to drive the engine in tests
type memStore struct {
	stats            map[primitive.ObjectID]*models.UserStats
	activities       []models.Activity
	categories       map[primitive.ObjectID]models.Category
	achievements     []models.Achievement
	userAchievements []models.UserAchievement
	milestones       map[primitive.ObjectID]*models.Milestone
	appreciations    []models.Appreciation
}

func newMemStore() *memStore {
	return &memStore{
		stats:      make(map[primitive.ObjectID]*models.UserStats),
		categories: make(map[primitive.ObjectID]models.Category),
		milestones: make(map[primitive.ObjectID]*models.Milestone),
	}
}

func (m *memStore) GetUserStats(_ context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	stats, ok := m.stats[userID]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (m *memStore) CreateUserStats(_ context.Context, stats *models.UserStats) (*models.UserStats, error) {
	stats.ID = primitive.NewObjectID()
	copied := *stats
	m.stats[stats.UserID] = &copied
	return stats, nil
}

func (m *memStore) UpdateUserStats(_ context.Context, stats *models.UserStats) (*models.UserStats, error) {
	copied := *stats
	m.stats[stats.UserID] = &copied
	return stats, nil
}

func (m *memStore) GetActivitiesByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range m.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetActivitiesByUserBetween(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range m.activities {
		if a.UserID == userID && !a.CompletedAt.Before(start) && a.CompletedAt.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) GetActivityCategory(_ context.Context, categoryID primitive.ObjectID) (*models.Category, error) {
	category, ok := m.categories[categoryID]
	if !ok {
		return nil, nil
	}
	return &category, nil
}

func (m *memStore) GetAchievements(_ context.Context) ([]models.Achievement, error) {
	var active []models.Achievement
	for _, a := range m.achievements {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (m *memStore) GetUserAchievements(_ context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	for _, ua := range m.userAchievements {
		if ua.UserID == userID {
			out = append(out, ua)
		}
	}
	return out, nil
}

func (m *memStore) AwardAchievement(_ context.Context, award *models.UserAchievement) (*models.UserAchievement, error) {
	award.ID = primitive.NewObjectID()
	m.userAchievements = append(m.userAchievements, *award)
	return award, nil
}

func (m *memStore) GetUserMilestones(_ context.Context, userID primitive.ObjectID) ([]models.Milestone, error) {
	var out []models.Milestone
	for _, ms := range m.milestones {
		if ms.UserID == userID {
			out = append(out, *ms)
		}
	}
	return out, nil
}

func (m *memStore) CompleteMilestone(_ context.Context, milestoneID primitive.ObjectID, completedAt time.Time) (*models.Milestone, error) {
	ms, ok := m.milestones[milestoneID]
	if !ok || ms.IsCompleted {
		return nil, nil
	}
	ms.IsCompleted = true
	ms.CompletedAt = &completedAt
	copied := *ms
	return &copied, nil
}

func (m *memStore) CreateMilestone(_ context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	milestone.ID = primitive.NewObjectID()
	copied := *milestone
	m.milestones[milestone.ID] = &copied
	return milestone, nil
}

func (m *memStore) GetAppreciationsByUser(_ context.Context, userID primitive.ObjectID) ([]models.Appreciation, error) {
	var out []models.Appreciation
	for _, a := range m.appreciations {
		if a.ToUserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// testClock is a Wednesday afternoon so weekly-goal windows are stable
var testClock = time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local)

func newTestService(store *memStore) *GamificationService {
	svc := NewGamificationService(store, nil)
	svc.now = func() time.Time { return testClock }
	return svc
}

func logActivity(store *memStore, userID primitive.ObjectID, points int, completedAt time.Time) *models.Activity {
	activity := models.Activity{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       "test activity",
		Points:      points,
		CompletedAt: completedAt,
	}
	store.activities = append(store.activities, activity)
	return &activity
}

func TestFirstActivityInitializesStats(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()
	activity := logActivity(store, userID, 10, testClock)

	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}

	stats := update.StatsUpdated
	if stats.TotalPoints != 10 {
		t.Errorf("expected 10 total points, got %d", stats.TotalPoints)
	}
	if stats.TotalActivities != 1 {
		t.Errorf("expected 1 total activity, got %d", stats.TotalActivities)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", stats.CurrentStreak)
	}
	if stats.Level != 1 {
		t.Errorf("expected level 1, got %d", stats.Level)
	}
	if update.LevelUp {
		t.Error("expected no level up for 10 points")
	}
}

func TestInitializeUserStatsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	first, err := svc.InitializeUserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("InitializeUserStats failed: %v", err)
	}

	first.TotalPoints = 42
	store.stats[userID] = first

	second, err := svc.InitializeUserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("InitializeUserStats failed: %v", err)
	}
	if second.TotalPoints != 42 {
		t.Errorf("expected existing stats returned unchanged, got totalPoints %d", second.TotalPoints)
	}
}

func TestLevelUpAtHundredPoints(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()
	store.stats[userID] = &models.UserStats{UserID: userID, TotalPoints: 95, TotalActivities: 9, Level: 1}

	activity := logActivity(store, userID, 10, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}

	if update.StatsUpdated.TotalPoints != 105 {
		t.Errorf("expected 105 total points, got %d", update.StatsUpdated.TotalPoints)
	}
	if !update.LevelUp {
		t.Error("expected level up at 105 points")
	}
	if update.OldLevel != 1 || update.NewLevel != 2 {
		t.Errorf("expected level 1 -> 2, got %d -> %d", update.OldLevel, update.NewLevel)
	}
}

func TestStreakSameDayUnchanged(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	earlier := testClock.Add(-3 * time.Hour)
	store.stats[userID] = &models.UserStats{
		UserID: userID, CurrentStreak: 4, LongestStreak: 4, Level: 1,
		LastActivityDate: &earlier,
	}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if update.StatsUpdated.CurrentStreak != 4 {
		t.Errorf("same-day activity changed streak: got %d, want 4", update.StatsUpdated.CurrentStreak)
	}
}

func TestStreakNextDayIncrements(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	yesterday := testClock.AddDate(0, 0, -1)
	store.stats[userID] = &models.UserStats{
		UserID: userID, CurrentStreak: 4, LongestStreak: 4, Level: 1,
		LastActivityDate: &yesterday,
	}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if update.StatsUpdated.CurrentStreak != 5 {
		t.Errorf("expected streak 5, got %d", update.StatsUpdated.CurrentStreak)
	}
	if update.StatsUpdated.LongestStreak != 5 {
		t.Errorf("expected longest streak 5, got %d", update.StatsUpdated.LongestStreak)
	}
}

func TestStreakGapResetsToOne(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	threeDaysAgo := testClock.AddDate(0, 0, -3)
	store.stats[userID] = &models.UserStats{
		UserID: userID, CurrentStreak: 10, LongestStreak: 10, Level: 1,
		LastActivityDate: &threeDaysAgo,
	}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if update.StatsUpdated.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", update.StatsUpdated.CurrentStreak)
	}
	if update.StatsUpdated.LongestStreak != 10 {
		t.Errorf("longest streak should survive a reset, got %d", update.StatsUpdated.LongestStreak)
	}
}

func TestAchievementAwardedOnceOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Century Scorer",
		Type: models.AchievementTypePoints, Criteria: `{"threshold":100}`,
		IsActive: true,
	}}
	store.stats[userID] = &models.UserStats{UserID: userID, TotalPoints: 90, TotalActivities: 5, Level: 1}

	activity := logActivity(store, userID, 10, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 1 {
		t.Fatalf("expected 1 new achievement at exactly 100 points, got %d", len(update.NewAchievements))
	}
	if store.userAchievements[0].Progress != 100 || !store.userAchievements[0].IsNew {
		t.Errorf("award should have progress 100 and isNew true, got %+v", store.userAchievements[0])
	}

	activity = logActivity(store, userID, 10, testClock)
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Errorf("achievement re-awarded: got %d new achievements", len(update.NewAchievements))
	}
	if len(store.userAchievements) != 1 {
		t.Errorf("expected exactly 1 user achievement row, got %d", len(store.userAchievements))
	}
}

func TestCategoryCaseSensitivityDivergence(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	categoryID := primitive.NewObjectID()
	store.categories[categoryID] = models.Category{ID: categoryID, Name: "Cooking"}

	// Two prior activities in "Cooking"
	for i := 0; i < 2; i++ {
		store.activities = append(store.activities, models.Activity{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			Title:       "made dinner",
			CategoryID:  categoryID,
			Points:      10,
			CompletedAt: testClock.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	// Both achievements target category "cooking" (lowercase). The
	// activity_count branch compares names exactly, category_master ignores
	// case, so only the latter may fire.
	store.achievements = []models.Achievement{
		{
			ID: primitive.NewObjectID(), Name: "Exact Count",
			Type: models.AchievementTypeActivityCount, Criteria: `{"threshold":2,"category":"cooking"}`,
			IsActive: true,
		},
		{
			ID: primitive.NewObjectID(), Name: "Master",
			Type: models.AchievementTypeCategoryMaster, Criteria: `{"threshold":2,"category":"cooking"}`,
			IsActive: true,
		},
	}
	store.stats[userID] = &models.UserStats{UserID: userID, TotalPoints: 20, TotalActivities: 2, Level: 1}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}

	if len(update.NewAchievements) != 1 {
		t.Fatalf("expected exactly 1 achievement awarded, got %d", len(update.NewAchievements))
	}
	if update.NewAchievements[0].Name != "Master" {
		t.Errorf("expected the case-insensitive category_master to fire, got %q", update.NewAchievements[0].Name)
	}
}

func TestSpecialUsesFirstConditionOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	// The second condition holds for any user with an activity, but only the
	// first listed condition is consulted.
	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Mystery",
		Type: models.AchievementTypeSpecial, Criteria: `{"conditions":["no_such_condition","first_activity"]}`,
		IsActive: true,
	}}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Errorf("unknown first condition should not qualify, got %d awards", len(update.NewAchievements))
	}
}

func TestSpecialAppreciationMaster(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	for i := 0; i < 10; i++ {
		store.appreciations = append(store.appreciations, models.Appreciation{
			ToUserID: userID, Message: "thanks",
		})
	}
	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Appreciation Magnet",
		Type: models.AchievementTypeSpecial, Criteria: `{"conditions":["appreciation_master"]}`,
		IsActive: true,
	}}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected appreciation_master to fire at 10 received, got %d awards", len(update.NewAchievements))
	}
}

func TestMalformedCriteriaIsFatal(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Broken",
		Type: models.AchievementTypePoints, Criteria: `{not json`,
		IsActive: true,
	}}

	activity := logActivity(store, userID, 5, testClock)
	if _, err := svc.ProcessActivity(context.Background(), userID, activity); err == nil {
		t.Fatal("expected malformed criteria to fail the pass, got nil error")
	}
}

func TestPointMilestoneCompletesOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	ms, _ := store.CreateMilestone(context.Background(), &models.Milestone{
		UserID: userID, Type: models.MilestoneTypePoints,
		Title: "Century Club", TargetValue: 100,
	})
	store.stats[userID] = &models.UserStats{UserID: userID, TotalPoints: 90, TotalActivities: 5, Level: 1}

	activity := logActivity(store, userID, 10, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.CompletedMilestones) != 1 {
		t.Fatalf("expected milestone completed at 100 points, got %d", len(update.CompletedMilestones))
	}
	completedAt := *store.milestones[ms.ID].CompletedAt

	activity = logActivity(store, userID, 10, testClock)
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.CompletedMilestones) != 0 {
		t.Errorf("completed milestone fired again")
	}
	if !store.milestones[ms.ID].CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt changed on re-evaluation")
	}
}

func TestWeeklyGoalMilestone(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.CreateMilestone(context.Background(), &models.Milestone{
		UserID: userID, Type: models.MilestoneTypeWeeklyGoal,
		Title: "Weekly Activity Goal", TargetValue: 3,
	})

	// Two activities earlier this week plus the one being logged now
	logActivity(store, userID, 5, testClock.AddDate(0, 0, -1))
	logActivity(store, userID, 5, testClock.AddDate(0, 0, -2))
	activity := logActivity(store, userID, 5, testClock)

	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.CompletedMilestones) != 1 {
		t.Fatalf("expected weekly goal completed with 3 activities this week, got %d", len(update.CompletedMilestones))
	}

	// Activities from last week must not count toward this week's window
	store2 := newMemStore()
	svc2 := newTestService(store2)
	user2 := primitive.NewObjectID()
	store2.CreateMilestone(context.Background(), &models.Milestone{
		UserID: user2, Type: models.MilestoneTypeWeeklyGoal,
		Title: "Weekly Activity Goal", TargetValue: 3,
	})
	logActivity(store2, user2, 5, testClock.AddDate(0, 0, -8))
	logActivity(store2, user2, 5, testClock.AddDate(0, 0, -9))
	activity2 := logActivity(store2, user2, 5, testClock)
	update2, err := svc2.ProcessActivity(context.Background(), user2, activity2)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update2.CompletedMilestones) != 0 {
		t.Errorf("last week's activities counted toward this week's goal")
	}
}

func TestStreakMilestone(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.CreateMilestone(context.Background(), &models.Milestone{
		UserID: userID, Type: models.MilestoneTypeStreak,
		Title: "Three in a Row", TargetValue: 3,
	})
	yesterday := testClock.AddDate(0, 0, -1)
	store.stats[userID] = &models.UserStats{
		UserID: userID, CurrentStreak: 2, LongestStreak: 2, Level: 1,
		LastActivityDate: &yesterday,
	}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.CompletedMilestones) != 1 {
		t.Errorf("expected streak milestone completed at streak 3, got %d", len(update.CompletedMilestones))
	}
}

func TestEarlyBirdHourBoundaries(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	at := func(hour, min int) time.Time {
		return time.Date(2025, 3, 12, hour, min, 0, 0, time.Local)
	}

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Early Bird",
		Type: models.AchievementTypeSpecial, Criteria: `{"conditions":["early_bird"]}`,
		IsActive: true,
	}}

	// Four activities inside [05:00, 09:00) plus two just outside it
	logActivity(store, userID, 5, at(5, 0))
	logActivity(store, userID, 5, at(6, 30))
	logActivity(store, userID, 5, at(7, 45))
	logActivity(store, userID, 5, at(8, 59))
	logActivity(store, userID, 5, at(9, 0))

	activity := logActivity(store, userID, 5, at(4, 59))
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Fatalf("04:59 and 09:00 activities counted as early-bird: got %d awards", len(update.NewAchievements))
	}

	// The fifth in-window activity tips it over
	activity = logActivity(store, userID, 5, at(5, 0))
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected early_bird to fire at 5 in-window activities, got %d awards", len(update.NewAchievements))
	}
}

func TestNightOwlHourBoundaries(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	at := func(day, hour, min int) time.Time {
		return time.Date(2025, 3, day, hour, min, 0, 0, time.Local)
	}

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Night Owl",
		Type: models.AchievementTypeSpecial, Criteria: `{"conditions":["night_owl"]}`,
		IsActive: true,
	}}

	// Four activities inside [20:00, 24:00); 19:59 and midnight are out
	logActivity(store, userID, 5, at(12, 20, 0))
	logActivity(store, userID, 5, at(12, 21, 15))
	logActivity(store, userID, 5, at(12, 22, 30))
	logActivity(store, userID, 5, at(12, 23, 59))
	logActivity(store, userID, 5, at(13, 0, 0))

	activity := logActivity(store, userID, 5, at(12, 19, 59))
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Fatalf("19:59 and 00:00 activities counted as night-owl: got %d awards", len(update.NewAchievements))
	}

	activity = logActivity(store, userID, 5, at(12, 20, 0))
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected night_owl to fire at 5 in-window activities, got %d awards", len(update.NewAchievements))
	}
}

func TestWeekendWarriorCountsWeekendsOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Weekend Warrior",
		Type: models.AchievementTypeSpecial, Criteria: `{"conditions":["weekend_warrior"]}`,
		IsActive: true,
	}}

	// Saturday Mar 8 and Sunday Mar 9, four weekend activities in total
	saturday := time.Date(2025, 3, 8, 10, 0, 0, 0, time.Local)
	sunday := time.Date(2025, 3, 9, 10, 0, 0, 0, time.Local)
	logActivity(store, userID, 5, saturday)
	logActivity(store, userID, 5, saturday.Add(2*time.Hour))
	logActivity(store, userID, 5, sunday)
	logActivity(store, userID, 5, sunday.Add(2*time.Hour))

	// Logging a weekday activity must not count toward the five
	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Fatalf("weekday activity counted as weekend: got %d awards", len(update.NewAchievements))
	}

	logActivity(store, userID, 5, saturday.Add(4*time.Hour))
	activity = logActivity(store, userID, 5, testClock)
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected weekend_warrior to fire at 5 weekend activities, got %d awards", len(update.NewAchievements))
	}
}

func TestStreakAchievementAtThreshold(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Week Warrior",
		Type: models.AchievementTypeStreak, Criteria: `{"threshold":7}`,
		IsActive: true,
	}}
	yesterday := testClock.AddDate(0, 0, -1)
	store.stats[userID] = &models.UserStats{
		UserID: userID, CurrentStreak: 6, LongestStreak: 6, Level: 1,
		LastActivityDate: &yesterday,
	}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if update.StatsUpdated.CurrentStreak != 7 {
		t.Fatalf("expected streak 7, got %d", update.StatsUpdated.CurrentStreak)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected streak achievement at exactly 7 days, got %d awards", len(update.NewAchievements))
	}
}

func TestActivityCountAchievementAtThreshold(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	// No category in the criteria, so the total count alone decides
	store.achievements = []models.Achievement{{
		ID: primitive.NewObjectID(), Name: "Busy Bee",
		Type: models.AchievementTypeActivityCount, Criteria: `{"threshold":25}`,
		IsActive: true,
	}}
	store.stats[userID] = &models.UserStats{UserID: userID, TotalPoints: 120, TotalActivities: 23, Level: 2}

	activity := logActivity(store, userID, 5, testClock)
	update, err := svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if len(update.NewAchievements) != 0 {
		t.Fatalf("expected no award at 24 activities, got %d", len(update.NewAchievements))
	}

	activity = logActivity(store, userID, 5, testClock)
	update, err = svc.ProcessActivity(context.Background(), userID, activity)
	if err != nil {
		t.Fatalf("ProcessActivity failed: %v", err)
	}
	if update.StatsUpdated.TotalActivities != 25 {
		t.Fatalf("expected 25 total activities, got %d", update.StatsUpdated.TotalActivities)
	}
	if len(update.NewAchievements) != 1 {
		t.Errorf("expected activity_count achievement at exactly 25, got %d awards", len(update.NewAchievements))
	}
}

func TestDefaultMilestonesIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	userID := primitive.NewObjectID()

	if err := svc.CreateDefaultMilestones(context.Background(), userID); err != nil {
		t.Fatalf("CreateDefaultMilestones failed: %v", err)
	}
	if err := svc.CreateDefaultMilestones(context.Background(), userID); err != nil {
		t.Fatalf("CreateDefaultMilestones failed: %v", err)
	}

	milestones, _ := store.GetUserMilestones(context.Background(), userID)
	if len(milestones) != 2 {
		t.Errorf("expected 2 default milestones after double bootstrap, got %d", len(milestones))
	}

	types := map[string]int{}
	for _, m := range milestones {
		types[m.Type]++
	}
	if types[models.MilestoneTypeWeeklyGoal] != 1 || types[models.MilestoneTypePoints] != 1 {
		t.Errorf("unexpected default milestone types: %v", types)
	}
}
