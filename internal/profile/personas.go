package profile

import "github.com/feedwise/feedwise/internal/model"

// Defaults returns the built-in demo personas
func Defaults() []model.UserProfile {
	return []model.UserProfile{
		{
			ID:                  "alex_parker",
			DisplayName:         "Alex Parker",
			Email:               "alex.parker@example.com",
			Persona:             "tech_enthusiast",
			Interests:           []string{"AI", "cybersecurity", "blockchain", "startups", "programming"},
			PreferredSources:    []string{"TechCrunch", "Wired", "Ars Technica", "MIT Technology Review"},
			PreferredCategories: []string{"technology"},
		},
		{
			ID:                  "priya_sharma",
			DisplayName:         "Priya Sharma",
			Email:               "priya.sharma@example.com",
			Persona:             "finance_guru",
			Interests:           []string{"global markets", "startups", "fintech", "cryptocurrency", "economics"},
			PreferredSources:    []string{"Bloomberg", "Financial Times", "Forbes", "CoinDesk"},
			PreferredCategories: []string{"business"},
		},
		{
			ID:                  "marco_rossi",
			DisplayName:         "Marco Rossi",
			Email:               "marco.rossi@example.com",
			Persona:             "sports_journalist",
			Interests:           []string{"football", "F1", "NBA", "Olympic sports", "esports"},
			PreferredSources:    []string{"ESPN", "BBC Sport", "Sky Sports", "The Athletic"},
			PreferredCategories: []string{"sports"},
		},
		{
			ID:                  "lisa_thompson",
			DisplayName:         "Lisa Thompson",
			Email:               "lisa.thompson@example.com",
			Persona:             "entertainment_buff",
			Interests:           []string{"movies", "celebrity news", "TV shows", "music", "books"},
			PreferredSources:    []string{"Variety", "Rolling Stone", "Billboard", "Hollywood Reporter"},
			PreferredCategories: []string{"entertainment"},
		},
		{
			ID:                  "david_martinez",
			DisplayName:         "David Martinez",
			Email:               "david.martinez@example.com",
			Persona:             "science_nerd",
			Interests:           []string{"space exploration", "AI", "biotech", "physics", "renewable energy"},
			PreferredSources:    []string{"NASA", "Science Daily", "Nature", "Ars Technica"},
			PreferredCategories: []string{"science"},
		},
	}
}
