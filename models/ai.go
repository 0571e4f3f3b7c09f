package models

// ActivitySuggestion is a single AI-proposed activity for a user
type ActivitySuggestion struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	EstimatedPoints int    `json:"estimatedPoints"`
}

// Insight is an AI-detected pattern in a user's activity history, e.g. a
// recurring task or an imbalance worth surfacing.
type Insight struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
