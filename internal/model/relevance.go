package model

// Relevance is the per-user score of an article with a transparent breakdown.
type Relevance struct {
	Score    float64  `json:"score"`    // Final score in [0,1]
	Interest float64  `json:"interest"` // Interest overlap component
	Source   float64  `json:"source"`   // Source preference component
	Recency  float64  `json:"recency"`  // Recency component
	Category float64  `json:"category"` // Preferred category component
	Penalty  float64  `json:"penalty"`  // Subtracted for excluded keywords
	Degraded bool     `json:"degraded"` // Recency-only scoring (empty profile)
	Signals  []Signal `json:"signals,omitempty"`
}

// Signal records one scoring input with the data used to compute it.
type Signal struct {
	Type        SignalType             `json:"type"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a scoring signal
type SignalType string

const (
	SignalInterest SignalType = "interest"
	SignalSource   SignalType = "source"
	SignalRecency  SignalType = "recency"
	SignalCategory SignalType = "category"
	SignalExcluded SignalType = "excluded"
)
