package score

import (
	"reflect"
	"testing"
	"time"

	"github.com/feedwise/feedwise/internal/analyze"
	"github.com/feedwise/feedwise/internal/model"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestScorer(cfg model.ScoringConfig) *Scorer {
	return NewScorer(cfg, analyze.New(model.AnalysisConfig{}, nil))
}

func defaultScorer() *Scorer {
	return newTestScorer(model.DefaultConfig().Scoring)
}

func TestScore_InterestAndSourceBeatUnrelated(t *testing.T) {
	s := defaultScorer()
	profile := model.UserProfile{
		ID:               "u1",
		Interests:        []string{"AI", "startups"},
		PreferredSources: []string{"TechCrunch"},
	}

	a := model.Article{
		ID:          "a",
		Title:       "AI lab closes funding round",
		Source:      "TechCrunch",
		URL:         "https://techcrunch.com/ai-lab",
		PublishedAt: testNow.Add(-time.Hour),
		Keywords:    []string{"ai", "funding"},
	}
	b := model.Article{
		ID:          "b",
		Title:       "Rain expected this weekend",
		Source:      "Daily Gazette",
		URL:         "https://gazette.example/rain",
		PublishedAt: testNow.Add(-time.Hour),
		Keywords:    []string{"weather", "rain"},
	}

	ra := s.Score(a, profile, testNow)
	rb := s.Score(b, profile, testNow)

	if ra.Score <= rb.Score {
		t.Errorf("score(A)=%v should exceed score(B)=%v", ra.Score, rb.Score)
	}
	if ra.Interest != 0.5 {
		t.Errorf("A interest = %v, want 0.5", ra.Interest)
	}
	if ra.Source != 1 {
		t.Errorf("A source = %v, want 1", ra.Source)
	}
	if rb.Interest != 0 || rb.Source != 0 {
		t.Errorf("B components = %+v, want no interest or source", rb)
	}
}

func TestScore_Bounds(t *testing.T) {
	s := newTestScorer(model.ScoringConfig{
		InterestWeight:  1,
		SourceWeight:    1,
		RecencyWeight:   1,
		CategoryWeight:  1,
		ExcludedPenalty: 3,
	})

	profiles := []model.UserProfile{
		{},
		{Interests: []string{"AI"}, PreferredSources: []string{"Wired"}, PreferredCategories: []string{"technology"}},
		{Interests: []string{"AI"}, ExcludedKeywords: []string{"ai"}},
	}
	articles := []model.Article{
		{ID: "1"},
		{ID: "2", Source: "Wired", Keywords: []string{"ai"}, PublishedAt: testNow,
			Categories: []model.CategoryScore{{Name: "technology", Confidence: 1}}},
		{ID: "3", PublishedAt: testNow.Add(48 * time.Hour)},
		{ID: "4", PublishedAt: testNow.Add(-30 * 24 * time.Hour), Keywords: []string{"ai"}},
	}

	for _, p := range profiles {
		for _, a := range articles {
			r := s.Score(a, p, testNow)
			if r.Score < 0 || r.Score > 1 {
				t.Errorf("Score(%s, %+v) = %v out of [0,1]", a.ID, p, r.Score)
			}
		}
	}
}

func TestScore_EmptyProfileUsesRecencyOnly(t *testing.T) {
	s := defaultScorer()

	a := model.Article{
		ID:          "a",
		Source:      "TechCrunch",
		Keywords:    []string{"ai"},
		PublishedAt: testNow.Add(-84 * time.Hour),
	}

	r := s.Score(a, model.UserProfile{ID: "empty"}, testNow)
	if !r.Degraded {
		t.Error("expected degraded scoring for empty profile")
	}
	if r.Score != 0.5 {
		t.Errorf("Score = %v, want 0.5 (recency only)", r.Score)
	}
	if len(r.Signals) != 1 || r.Signals[0].Type != model.SignalRecency {
		t.Errorf("Signals = %+v, want recency only", r.Signals)
	}
}

func TestScore_ZeroInterestsStillScoresSources(t *testing.T) {
	s := defaultScorer()
	p := model.UserProfile{PreferredSources: []string{"Wired"}}

	r := s.Score(model.Article{ID: "a", Source: "Wired", Keywords: []string{"ai"}}, p, testNow)
	if r.Degraded {
		t.Error("profile with sources must not be degraded")
	}
	if r.Interest != 0 {
		t.Errorf("Interest = %v, want 0", r.Interest)
	}
	if r.Score != 0.25 {
		t.Errorf("Score = %v, want 0.25", r.Score)
	}
}

func TestScore_Recency(t *testing.T) {
	s := defaultScorer()
	p := model.UserProfile{Interests: []string{"anything"}}

	tests := []struct {
		name      string
		published time.Time
		want      float64
	}{
		{"now", testNow, 1},
		{"future", testNow.Add(6 * time.Hour), 1},
		{"half horizon", testNow.Add(-84 * time.Hour), 0.5},
		{"beyond horizon", testNow.Add(-200 * time.Hour), 0},
		{"unknown date", time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.Score(model.Article{ID: "a", PublishedAt: tt.published}, p, testNow)
			if r.Recency != tt.want {
				t.Errorf("Recency = %v, want %v", r.Recency, tt.want)
			}
		})
	}
}

func TestScore_InterestMatching(t *testing.T) {
	s := defaultScorer()

	tests := []struct {
		name     string
		interest string
		keywords []string
		cats     []model.CategoryScore
		want     float64
	}{
		{"stem match", "startups", []string{"startup"}, nil, 1},
		{"short interest needs whole stem", "AI", []string{"chair"}, nil, 0},
		{"substring for longer interest", "crypto", []string{"cryptocurrency"}, nil, 1},
		{"multi word interest", "global markets", []string{"markets", "global", "stocks"}, nil, 1},
		{"category name", "science", []string{"telescope"}, []model.CategoryScore{{Name: "science", Confidence: 0.3}}, 1},
		{"zero confidence category ignored", "general", nil, []model.CategoryScore{{Name: "general", Confidence: 0}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.UserProfile{Interests: []string{tt.interest}}
			a := model.Article{ID: "a", Keywords: tt.keywords, Categories: tt.cats}
			if got := s.Score(a, p, testNow).Interest; got != tt.want {
				t.Errorf("Interest = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_ExcludedKeywordPenalty(t *testing.T) {
	s := defaultScorer()
	a := model.Article{
		ID:          "a",
		Title:       "Crypto exchange adds AI trading",
		Keywords:    []string{"ai", "trading"},
		PublishedAt: testNow,
	}

	clean := s.Score(a, model.UserProfile{Interests: []string{"AI"}}, testNow)
	penalized := s.Score(a, model.UserProfile{Interests: []string{"AI"}, ExcludedKeywords: []string{"crypto"}}, testNow)

	if penalized.Penalty != 0.5 {
		t.Errorf("Penalty = %v, want 0.5", penalized.Penalty)
	}
	if penalized.Score >= clean.Score {
		t.Errorf("penalized score %v should be below %v", penalized.Score, clean.Score)
	}
}

func TestScore_PreferredCategory(t *testing.T) {
	cfg := model.DefaultConfig().Scoring
	cfg.CategoryWeight = 0.2
	s := newTestScorer(cfg)

	a := model.Article{ID: "a", Categories: []model.CategoryScore{{Name: "science", Confidence: 0.4}}}
	r := s.Score(a, model.UserProfile{PreferredCategories: []string{"Science"}}, testNow)

	if r.Category != 1 {
		t.Errorf("Category = %v, want 1", r.Category)
	}
	if r.Score != 0.2 {
		t.Errorf("Score = %v, want 0.2", r.Score)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := defaultScorer()
	p := model.UserProfile{Interests: []string{"AI", "space exploration"}, PreferredSources: []string{"NASA"}}
	a := model.Article{ID: "a", Source: "NASA", Keywords: []string{"space", "exploration", "ai"}, PublishedAt: testNow.Add(-time.Hour)}

	first := s.Score(a, p, testNow)
	for i := 0; i < 5; i++ {
		if got := s.Score(a, p, testNow); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs", i)
		}
	}
}
