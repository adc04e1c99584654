// Package score computes per-user article relevance with a transparent
// breakdown of every signal that contributed.
package score

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/feedwise/feedwise/internal/model"
)

// Normalizer maps a term into the stem space shared with the analyzer.
type Normalizer interface {
	Normalize(term string) []string
}

// minSubstringInterest is the shortest interest that may match by substring.
// Shorter interests ("AI") only match whole keyword stems.
const minSubstringInterest = 4

// Scorer calculates relevance scores. It is stateless across calls and safe
// for concurrent use.
type Scorer struct {
	cfg     model.ScoringConfig
	norm    Normalizer
	sources *SourceMatcher
}

// NewScorer creates a new scorer. A zero recency horizon means the default.
func NewScorer(cfg model.ScoringConfig, norm Normalizer) *Scorer {
	if cfg.RecencyHorizon <= 0 {
		cfg.RecencyHorizon = model.DefaultConfig().Scoring.RecencyHorizon
	}
	return &Scorer{cfg: cfg, norm: norm, sources: NewSourceMatcher()}
}

// Score rates how well article a matches profile p at time now.
func (s *Scorer) Score(a model.Article, p model.UserProfile, now time.Time) model.Relevance {
	recency, recencySignal := s.calculateRecency(a, now)

	if p.IsEmpty() {
		recencySignal.Description += " (profile has no preferences, recency only)"
		return model.Relevance{
			Score:    clamp01(recency),
			Recency:  recency,
			Degraded: true,
			Signals:  []model.Signal{recencySignal},
		}
	}

	terms := s.articleTerms(a)

	interest, interestSignal := s.calculateInterest(a, p, terms)
	source, sourceSignal := s.calculateSource(a, p)
	category, categorySignal := s.calculateCategory(a, p)
	penalty, excludedSignal := s.calculateExcluded(a, p, terms)

	signals := []model.Signal{interestSignal, sourceSignal, recencySignal}
	if len(p.PreferredCategories) > 0 {
		signals = append(signals, categorySignal)
	}
	if penalty > 0 {
		signals = append(signals, excludedSignal)
	}

	total := s.cfg.InterestWeight*interest +
		s.cfg.SourceWeight*source +
		s.cfg.RecencyWeight*recency +
		s.cfg.CategoryWeight*category -
		penalty

	return model.Relevance{
		Score:    clamp01(total),
		Interest: interest,
		Source:   source,
		Recency:  recency,
		Category: category,
		Penalty:  penalty,
		Signals:  signals,
	}
}

// articleTerms holds the comparison forms of an article's text
type articleTerms struct {
	stems    map[string]struct{}
	keywords []string // lowercase
	title    map[string]struct{}
}

func (s *Scorer) articleTerms(a model.Article) articleTerms {
	t := articleTerms{
		stems: make(map[string]struct{}),
		title: make(map[string]struct{}),
	}
	for _, kw := range a.Keywords {
		t.keywords = append(t.keywords, strings.ToLower(kw))
		for _, stem := range s.norm.Normalize(kw) {
			t.stems[stem] = struct{}{}
		}
	}
	for _, stem := range s.norm.Normalize(a.Title) {
		t.title[stem] = struct{}{}
	}
	return t
}

// matchesTerm reports whether a profile term hits the article: all of its
// stems are keyword stems, or (for longer terms) it is a substring of a keyword.
func (s *Scorer) matchesTerm(term string, stems map[string]struct{}, keywords []string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}

	if termStems := s.norm.Normalize(term); len(termStems) > 0 && containsAll(stems, termStems) {
		return true
	}

	if len([]rune(term)) >= minSubstringInterest {
		for _, kw := range keywords {
			if strings.Contains(kw, term) {
				return true
			}
		}
	}
	return false
}

// calculateInterest is the fraction of interests that hit the article (0-1)
func (s *Scorer) calculateInterest(a model.Article, p model.UserProfile, terms articleTerms) (float64, model.Signal) {
	var interests, matched []string
	for _, interest := range p.Interests {
		if strings.TrimSpace(interest) == "" {
			continue
		}
		interests = append(interests, interest)
		if s.matchesTerm(interest, terms.stems, terms.keywords) || matchesCategory(interest, a.Categories) {
			matched = append(matched, interest)
		}
	}

	if len(interests) == 0 {
		return 0, model.Signal{
			Type:        model.SignalInterest,
			Description: "No interests declared",
			Data:        map[string]interface{}{"interests": 0},
		}
	}

	value := float64(len(matched)) / float64(len(interests))

	return value, model.Signal{
		Type:        model.SignalInterest,
		Description: fmt.Sprintf("Matched %d/%d interests", len(matched), len(interests)),
		Data: map[string]interface{}{
			"matched":   matched,
			"interests": len(interests),
			"value":     value,
			"formula":   "matched_interests / interests",
		},
	}
}

func matchesCategory(interest string, categories []model.CategoryScore) bool {
	interest = strings.ToLower(strings.TrimSpace(interest))
	if len([]rune(interest)) < minSubstringInterest {
		return false
	}
	for _, c := range categories {
		if c.Confidence > 0 && strings.Contains(c.Name, interest) {
			return true
		}
	}
	return false
}

// calculateSource rates the article's source against preferred sources (0, 0.5 or 1)
func (s *Scorer) calculateSource(a model.Article, p model.UserProfile) (float64, model.Signal) {
	match, preferred := s.sources.Match(a.Source, a.URL, p.PreferredSources)

	value := 0.0
	switch match {
	case MatchExact:
		value = 1.0
	case MatchPartial:
		value = 0.5
	}

	return value, model.Signal{
		Type:        model.SignalSource,
		Description: fmt.Sprintf("Source %q: %s match", a.Source, match),
		Data: map[string]interface{}{
			"source":    a.Source,
			"preferred": preferred,
			"match":     string(match),
			"value":     value,
		},
	}
}

// calculateRecency decays linearly from 1 (now or future) to 0 at the horizon
func (s *Scorer) calculateRecency(a model.Article, now time.Time) (float64, model.Signal) {
	horizon := s.cfg.RecencyHorizon
	age := now.Sub(a.PublishedAt)

	var value float64
	switch {
	case a.PublishedAt.IsZero():
		value = 0
	case age <= 0:
		value = 1
	case age >= horizon:
		value = 0
	default:
		value = 1 - float64(age)/float64(horizon)
	}

	return value, model.Signal{
		Type:        model.SignalRecency,
		Description: fmt.Sprintf("Published %s ago", age.Round(time.Minute)),
		Data: map[string]interface{}{
			"age_hours":     age.Hours(),
			"horizon_hours": horizon.Hours(),
			"value":         value,
			"formula":       "1 - age / horizon",
		},
	}
}

// calculateCategory is 1 when the primary category is preferred
func (s *Scorer) calculateCategory(a model.Article, p model.UserProfile) (float64, model.Signal) {
	primary := a.PrimaryCategory()
	value := 0.0
	for _, c := range p.PreferredCategories {
		if strings.EqualFold(strings.TrimSpace(c), primary) {
			value = 1.0
			break
		}
	}

	return value, model.Signal{
		Type:        model.SignalCategory,
		Description: fmt.Sprintf("Primary category %q", primary),
		Data: map[string]interface{}{
			"category": primary,
			"value":    value,
		},
	}
}

// calculateExcluded returns the penalty when any excluded keyword hits the
// article's keywords or title
func (s *Scorer) calculateExcluded(a model.Article, p model.UserProfile, terms articleTerms) (float64, model.Signal) {
	var hits []string
	for _, excluded := range p.ExcludedKeywords {
		if s.matchesTerm(excluded, terms.stems, terms.keywords) || s.matchesTerm(excluded, terms.title, nil) {
			hits = append(hits, excluded)
		}
	}

	if len(hits) == 0 {
		return 0, model.Signal{Type: model.SignalExcluded}
	}

	return s.cfg.ExcludedPenalty, model.Signal{
		Type:        model.SignalExcluded,
		Description: fmt.Sprintf("Excluded keywords present: %s", strings.Join(hits, ", ")),
		Data: map[string]interface{}{
			"hits":    hits,
			"penalty": s.cfg.ExcludedPenalty,
		},
	}
}

func containsAll(set map[string]struct{}, items []string) bool {
	for _, it := range items {
		if _, ok := set[it]; !ok {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
