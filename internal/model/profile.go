package model

import "strings"

// UserProfile is the read-only input to relevance scoring.
type UserProfile struct {
	ID                  string   `yaml:"id" json:"id"`
	DisplayName         string   `yaml:"name" json:"name"`
	Email               string   `yaml:"email,omitempty" json:"email,omitempty"`
	Interests           []string `yaml:"interests" json:"interests"`
	PreferredSources    []string `yaml:"preferred_sources" json:"preferred_sources"`
	PreferredCategories []string `yaml:"preferred_categories,omitempty" json:"preferred_categories,omitempty"`
	ExcludedKeywords    []string `yaml:"excluded_keywords,omitempty" json:"excluded_keywords,omitempty"`
	MaxTopStories       int      `yaml:"max_top_stories,omitempty" json:"max_top_stories,omitempty"`
	Persona             string   `yaml:"persona,omitempty" json:"persona,omitempty"`
}

// IsEmpty reports whether the profile carries no preference signal at all.
// Such profiles are scored on recency only.
func (p UserProfile) IsEmpty() bool {
	return len(nonBlank(p.Interests)) == 0 &&
		len(nonBlank(p.PreferredSources)) == 0 &&
		len(nonBlank(p.PreferredCategories)) == 0
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
