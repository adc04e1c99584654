package model

import "time"

// Article is one normalized feed item. The feed collaborator fills the raw
// fields; analysis and scoring fields are attached by the pipeline stages.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	RawText     string    `json:"raw_text,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`

	// FeedCategory is the category hint of the feed the item came from.
	// It is informational only and never used for classification.
	FeedCategory string `json:"feed_category,omitempty"`

	Summary    string          `json:"summary"`
	Keywords   []string        `json:"keywords"`
	Categories []CategoryScore `json:"categories"`
	Sentiment  float64         `json:"sentiment"`

	// Relevance is nil until the scorer has run for a specific user.
	Relevance *Relevance `json:"relevance,omitempty"`
}

// CategoryScore is a category assignment with its confidence in [0,1].
type CategoryScore struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// GeneralCategory is the fallback category assigned when nothing else matches.
const GeneralCategory = "general"

// PrimaryCategory returns the highest-confidence category, or GeneralCategory
// if the article has not been categorized.
func (a Article) PrimaryCategory() string {
	if len(a.Categories) == 0 {
		return GeneralCategory
	}
	return a.Categories[0].Name
}

// Score returns the relevance score and whether it has been set.
func (a Article) Score() (float64, bool) {
	if a.Relevance == nil {
		return 0, false
	}
	return a.Relevance.Score, true
}

// RelevanceScore returns the relevance score, or 0 when unscored.
func (a Article) RelevanceScore() float64 {
	s, _ := a.Score()
	return s
}

// Clone returns a copy that shares no mutable state with a.
func (a Article) Clone() Article {
	c := a
	if a.Keywords != nil {
		c.Keywords = append([]string(nil), a.Keywords...)
	}
	if a.Categories != nil {
		c.Categories = append([]CategoryScore(nil), a.Categories...)
	}
	if a.Relevance != nil {
		r := *a.Relevance
		r.Signals = append([]Signal(nil), a.Relevance.Signals...)
		c.Relevance = &r
	}
	return c
}
