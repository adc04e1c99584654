// Package dedupe collapses near-duplicate coverage of the same story.
package dedupe

import (
	"strings"

	"github.com/feedwise/feedwise/internal/model"
)

// Normalizer maps text into the stem space shared with the analyzer.
type Normalizer interface {
	Normalize(term string) []string
}

// Deduplicator clusters similar articles and keeps one per cluster.
type Deduplicator struct {
	threshold float64
	norm      Normalizer
}

// New creates a deduplicator. A threshold outside (0,1] means the default.
func New(cfg model.DedupeConfig, norm Normalizer) *Deduplicator {
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = model.DefaultConfig().Dedupe.Threshold
	}
	return &Deduplicator{threshold: cfg.Threshold, norm: norm}
}

type fingerprint struct {
	url      string
	title    map[string]struct{}
	keywords map[string]struct{}
}

// Dedupe returns one representative per cluster of near-duplicates, in the
// order each cluster first appears. Clusters are single-link, so the result
// does not depend on comparison order, and survivors are pairwise below the
// threshold which makes a second pass a no-op.
func (d *Deduplicator) Dedupe(articles []model.Article) []model.Article {
	if len(articles) < 2 {
		return append([]model.Article(nil), articles...)
	}

	prints := make([]fingerprint, len(articles))
	for i, a := range articles {
		prints[i] = d.fingerprint(a)
	}

	uf := newUnionFind(len(articles))
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			if similarity(prints[i], prints[j]) >= d.threshold {
				uf.union(i, j)
			}
		}
	}

	best := make(map[int]int)
	var roots []int
	for i := range articles {
		root := uf.find(i)
		cur, seen := best[root]
		if !seen {
			roots = append(roots, root)
			best[root] = i
			continue
		}
		if preferred(articles[i], articles[cur]) {
			best[root] = i
		}
	}

	out := make([]model.Article, 0, len(roots))
	for _, root := range roots {
		out = append(out, articles[best[root]])
	}
	return out
}

// Similarity returns the duplicate score of two articles in [0,1].
func (d *Deduplicator) Similarity(a, b model.Article) float64 {
	return similarity(d.fingerprint(a), d.fingerprint(b))
}

func (d *Deduplicator) fingerprint(a model.Article) fingerprint {
	fp := fingerprint{
		url:      strings.TrimSpace(a.URL),
		title:    make(map[string]struct{}),
		keywords: make(map[string]struct{}),
	}
	for _, stem := range d.norm.Normalize(a.Title) {
		fp.title[stem] = struct{}{}
	}
	for _, kw := range a.Keywords {
		for _, stem := range d.norm.Normalize(kw) {
			fp.keywords[stem] = struct{}{}
		}
	}
	return fp
}

func similarity(a, b fingerprint) float64 {
	if a.url != "" && a.url == b.url {
		return 1
	}
	title := jaccard(a.title, b.title)
	blended := 0.5*title + 0.5*jaccard(a.keywords, b.keywords)
	if blended > title {
		return blended
	}
	return title
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

// preferred reports whether a should represent its cluster instead of b:
// higher relevance, then earlier publication, then smaller ID.
func preferred(a, b model.Article) bool {
	sa, sb := a.RelevanceScore(), b.RelevanceScore()
	if sa != sb {
		return sa > sb
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	return a.ID < b.ID
}
