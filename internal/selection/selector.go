// Package selection assembles the per-user bundle from scored articles.
package selection

import (
	"sort"

	"github.com/feedwise/feedwise/internal/model"
)

// Selector orders scored articles and splits them into top stories and
// per-category buckets.
type Selector struct {
	rank map[string]int
}

// New creates a selector whose bucket order follows categoryOrder. Buckets
// for names not listed are placed after, alphabetically.
func New(categoryOrder []string) *Selector {
	rank := make(map[string]int, len(categoryOrder))
	for i, name := range categoryOrder {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	return &Selector{rank: rank}
}

// Select builds a bundle with at most maxTop top stories; zero or a
// negative count leaves every article in the category buckets. Articles
// without a relevance score are skipped and each ID is used at most once.
func (s *Selector) Select(articles []model.Article, maxTop int) model.ArticleBundle {
	maxTop = max(maxTop, 0)

	ranked := make([]model.Article, 0, len(articles))
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if a.Relevance == nil {
			continue
		}
		if len(a.Categories) == 0 {
			a.Categories = []model.CategoryScore{{Name: model.GeneralCategory}}
		}
		ranked = append(ranked, a)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})

	unique := ranked[:0]
	for _, a := range ranked {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		unique = append(unique, a)
	}
	ranked = unique

	bundle := model.ArticleBundle{
		TopStories:    []model.Article{},
		Categorized:   map[string][]model.Article{},
		CategoryOrder: []string{},
	}

	n := min(maxTop, len(ranked))
	bundle.TopStories = append(bundle.TopStories, ranked[:n]...)

	for _, a := range ranked[n:] {
		name := a.PrimaryCategory()
		if _, ok := bundle.Categorized[name]; !ok {
			bundle.CategoryOrder = append(bundle.CategoryOrder, name)
		}
		bundle.Categorized[name] = append(bundle.Categorized[name], a)
	}

	sort.SliceStable(bundle.CategoryOrder, func(i, j int) bool {
		return s.before(bundle.CategoryOrder[i], bundle.CategoryOrder[j])
	})

	return bundle
}

func (s *Selector) before(a, b string) bool {
	ra, okA := s.rank[a]
	rb, okB := s.rank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

// Less is the selection order: relevance desc, newest first, then ID.
func Less(a, b model.Article) bool {
	sa, sb := a.RelevanceScore(), b.RelevanceScore()
	if sa != sb {
		return sa > sb
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.ID < b.ID
}
