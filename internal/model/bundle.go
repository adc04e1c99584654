package model

import "time"

// ArticleBundle is the personalized output for one user and run.
type ArticleBundle struct {
	UserID      string               `json:"user_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	TopStories  []Article            `json:"top_stories"`
	Categorized map[string][]Article `json:"categorized"`

	// CategoryOrder lists the keys of Categorized in display order.
	CategoryOrder []string `json:"category_order"`

	// EditorNote is an optional LLM-written intro. It never affects selection.
	EditorNote string `json:"editor_note,omitempty"`
}

// Len returns the number of distinct articles in the bundle.
func (b ArticleBundle) Len() int {
	n := len(b.TopStories)
	for _, articles := range b.Categorized {
		n += len(articles)
	}
	return n
}
