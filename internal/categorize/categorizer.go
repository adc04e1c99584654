// Package categorize assigns taxonomy categories to analyzed articles.
package categorize

import (
	"sort"

	"github.com/feedwise/feedwise/internal/model"
)

// Categorizer assigns categories from an article's keywords. Implementations
// must return at least one entry and order results by confidence.
type Categorizer interface {
	Categorize(keywords []string) []model.CategoryScore
}

// Normalizer maps a term into comparison space.
type Normalizer interface {
	Normalize(term string) []string
}

type seededCategory struct {
	name  string
	seeds map[string]struct{}
}

// KeywordCategorizer scores categories by the overlap coefficient between the
// article's keyword stems and each category's seed stems.
type KeywordCategorizer struct {
	categories    []seededCategory
	norm          Normalizer
	minConfidence float64
}

// NewKeywordCategorizer binds a taxonomy. Seeds are normalized once here.
func NewKeywordCategorizer(t *Taxonomy, norm Normalizer, minConfidence float64) *KeywordCategorizer {
	kc := &KeywordCategorizer{norm: norm, minConfidence: minConfidence}
	for _, c := range t.categories {
		seeds := make(map[string]struct{})
		for _, s := range c.Seeds {
			for _, stem := range norm.Normalize(s) {
				seeds[stem] = struct{}{}
			}
		}
		kc.categories = append(kc.categories, seededCategory{name: c.Name, seeds: seeds})
	}
	return kc
}

// Categorize returns categories at or above the confidence threshold, highest
// first with ties in taxonomy order. With no match it returns general at 0.
func (kc *KeywordCategorizer) Categorize(keywords []string) []model.CategoryScore {
	stems := make(map[string]struct{})
	for _, kw := range keywords {
		for _, stem := range kc.norm.Normalize(kw) {
			stems[stem] = struct{}{}
		}
	}

	var out []model.CategoryScore
	if len(stems) > 0 {
		for _, c := range kc.categories {
			conf := overlap(stems, c.seeds)
			if conf > 0 && conf >= kc.minConfidence {
				out = append(out, model.CategoryScore{Name: c.name, Confidence: conf})
			}
		}
	}

	if len(out) == 0 {
		return []model.CategoryScore{{Name: model.GeneralCategory, Confidence: 0}}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// overlap is |a ∩ b| / min(|a|, |b|).
func overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}
