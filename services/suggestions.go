package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"appreciatemate/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateActivitySuggestions asks the model for personalized activity ideas
// based on the user's recent history. Any model failure falls back to a
// fixed set of suggestions rather than an error.
func GenerateActivitySuggestions(ctx context.Context, store Storage, userID primitive.ObjectID) ([]models.ActivitySuggestion, error) {
	recent, err := store.GetActivitiesByUser(ctx, userID, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}

	var history strings.Builder
	for _, a := range recent {
		history.WriteString(fmt.Sprintf("- %s (%d points, %s)\n", a.Title, a.Points, a.CompletedAt.Format("Mon 15:04")))
	}
	if history.Len() == 0 {
		history.WriteString("(no activities logged yet)\n")
	}

	prompt := fmt.Sprintf(
		`You are a helpful assistant for a couples' contribution-tracking app. Based on the user's recent activities, suggest 3 household or relationship activities they could do next. Favor variety over repeating what they already do often.

Recent activities:
%s
Required Output Format (JSON):
[
  {"title": "...", "description": "...", "category": "...", "estimatedPoints": 10}
]

Provide ONLY the JSON output without additional text or markdown formatting.`,
		history.String(),
	)

	response, err := generateModelText(ctx, prompt)
	if err != nil {
		log.Printf("Failed to generate suggestions: %v", err)
		return fallbackSuggestions(), nil
	}

	var suggestions []models.ActivitySuggestion
	if err := json.Unmarshal([]byte(response), &suggestions); err != nil {
		log.Printf("Invalid suggestion format from model: %v", err)
		return fallbackSuggestions(), nil
	}
	if len(suggestions) == 0 {
		return fallbackSuggestions(), nil
	}

	return suggestions, nil
}

func fallbackSuggestions() []models.ActivitySuggestion {
	return []models.ActivitySuggestion{
		{Title: "Cook dinner together", Description: "Plan and cook a meal as a team", Category: "Cooking", EstimatedPoints: 15},
		{Title: "Tidy the living room", Description: "A quick 20-minute reset", Category: "Cleaning", EstimatedPoints: 10},
		{Title: "Plan the week's groceries", Description: "Write the shopping list for the week", Category: "Errands", EstimatedPoints: 10},
	}
}

// GenerateInsights asks the model to spot recurring patterns in the user's
// history (tasks that repeat weekly, time-of-day habits, imbalances). On any
// failure it returns an empty list, never an error, matching the contract
// that insights are best-effort.
func GenerateInsights(ctx context.Context, store Storage, userID primitive.ObjectID) ([]models.Insight, error) {
	recent, err := store.GetActivitiesByUser(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity history: %w", err)
	}
	if len(recent) == 0 {
		return []models.Insight{}, nil
	}

	var history strings.Builder
	for _, a := range recent {
		history.WriteString(fmt.Sprintf("- %s on %s\n", a.Title, a.CompletedAt.Format("Mon Jan 2 15:04")))
	}

	prompt := fmt.Sprintf(
		`Analyze this activity log from a household contribution-tracking app. Identify up to 3 patterns worth telling the user about: tasks that recur on a schedule, strong time-of-day habits, or categories they neglect.

Activity log:
%s
Required Output Format (JSON):
[
  {"title": "...", "detail": "..."}
]

Provide ONLY the JSON output without additional text or markdown formatting.`,
		history.String(),
	)

	response, err := generateModelText(ctx, prompt)
	if err != nil {
		log.Printf("Failed to generate insights: %v", err)
		return []models.Insight{}, nil
	}

	var insights []models.Insight
	if err := json.Unmarshal([]byte(response), &insights); err != nil {
		log.Printf("Invalid insight format from model: %v", err)
		return []models.Insight{}, nil
	}

	return insights, nil
}
