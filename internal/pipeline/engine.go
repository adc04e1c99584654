// Package pipeline wires the analysis and personalization stages into one
// engine: prepare articles once, then build a bundle per user.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feedwise/feedwise/internal/analyze"
	"github.com/feedwise/feedwise/internal/cache"
	"github.com/feedwise/feedwise/internal/categorize"
	"github.com/feedwise/feedwise/internal/dedupe"
	"github.com/feedwise/feedwise/internal/llm"
	"github.com/feedwise/feedwise/internal/model"
	"github.com/feedwise/feedwise/internal/score"
	"github.com/feedwise/feedwise/internal/selection"
	"github.com/feedwise/feedwise/internal/validate"
	"github.com/feedwise/feedwise/internal/worker"
)

// Engine orchestrates the complete digest process
type Engine struct {
	config      *model.Config
	logger      *slog.Logger
	resources   *analyze.Resources
	analyzer    *analyze.Analyzer
	taxonomy    *categorize.Taxonomy
	categorizer categorize.Categorizer
	scorer      *score.Scorer
	deduper     *dedupe.Deduplicator
	selector    *selection.Selector
	editor      *llm.Editor // nil if disabled
	store       cache.Cache
	memo        *cache.Memo[preparedAnalysis]
	fingerprint string
}

// Option customizes an Engine
type Option func(*Engine)

// WithCache backs the analysis memo with a persistent store.
func WithCache(store cache.Cache) Option {
	return func(e *Engine) { e.store = store }
}

// WithEditor enables the LLM editor note.
func WithEditor(editor *llm.Editor) Option {
	return func(e *Engine) { e.editor = editor }
}

// WithTaxonomy replaces the configured taxonomy.
func WithTaxonomy(t *categorize.Taxonomy) Option {
	return func(e *Engine) { e.taxonomy = t }
}

// WithCategorizer swaps the categorization strategy. The taxonomy still
// decides bucket display order.
func WithCategorizer(c categorize.Categorizer) Option {
	return func(e *Engine) { e.categorizer = c }
}

// WithResources replaces the stopword and sentiment lexicons.
func WithResources(r *analyze.Resources) Option {
	return func(e *Engine) { e.resources = r }
}

// preparedAnalysis is the memoized, user-independent part of an article.
type preparedAnalysis struct {
	Summary    string                `json:"summary"`
	Keywords   []string              `json:"keywords"`
	Categories []model.CategoryScore `json:"categories"`
	Sentiment  float64               `json:"sentiment"`
}

// Rejection records an article that could not be prepared.
type Rejection struct {
	ArticleID string
	Title     string
	URL       string
	Err       error
}

// NewEngine creates an engine from cfg. The taxonomy file is loaded when
// configured, otherwise the built-in taxonomy is used.
func NewEngine(cfg *model.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{config: cfg, logger: logger}
	for _, opt := range opts {
		opt(e)
	}

	if e.taxonomy == nil {
		if cfg.Categorize.TaxonomyFile != "" {
			t, err := categorize.LoadTaxonomy(cfg.Categorize.TaxonomyFile)
			if err != nil {
				return nil, fmt.Errorf("load taxonomy: %w", err)
			}
			e.taxonomy = t
		} else {
			e.taxonomy = categorize.DefaultTaxonomy()
		}
	}

	e.analyzer = analyze.New(cfg.Analysis, e.resources)
	if e.categorizer == nil {
		e.categorizer = categorize.NewKeywordCategorizer(e.taxonomy, e.analyzer, cfg.Categorize.MinConfidence)
	}
	e.scorer = score.NewScorer(cfg.Scoring, e.analyzer)
	e.deduper = dedupe.New(cfg.Dedupe, e.analyzer)
	e.selector = selection.New(e.taxonomy.Names())
	e.memo = cache.NewMemo[preparedAnalysis](e.store, cfg.Cache.TTL)
	e.fingerprint = fingerprint(cfg, e.taxonomy, e.categorizer)

	return e, nil
}

// fingerprint identifies the settings an analysis depends on so cached
// entries are not reused across incompatible configurations or
// categorization strategies.
func fingerprint(cfg *model.Config, t *categorize.Taxonomy, c categorize.Categorizer) string {
	return fmt.Sprintf("%+v|%g|%v|%T", cfg.Analysis, cfg.Categorize.MinConfidence, t.Categories(), c)
}

// Taxonomy returns the taxonomy in use
func (e *Engine) Taxonomy() *categorize.Taxonomy {
	return e.taxonomy
}

// Editor returns the configured editor, or nil
func (e *Engine) Editor() *llm.Editor {
	return e.editor
}

// AnalysisStats reports memo hits from the store and fresh computations.
func (e *Engine) AnalysisStats() (hits, misses int64) {
	return e.memo.Stats()
}

// Analyze runs analysis and categorization on a single article without
// validation or memoization.
func (e *Engine) Analyze(a model.Article) model.Article {
	out := a.Clone()
	apply(&out, e.compute(a.RawText))
	return out
}

func (e *Engine) compute(raw string) preparedAnalysis {
	an := e.analyzer.Analyze(raw)
	return preparedAnalysis{
		Summary:    an.Summary,
		Keywords:   an.Keywords,
		Categories: e.categorizer.Categorize(an.Keywords),
		Sentiment:  an.Sentiment,
	}
}

func apply(a *model.Article, p preparedAnalysis) {
	a.Summary = p.Summary
	a.Keywords = append([]string{}, p.Keywords...)
	a.Categories = append([]model.CategoryScore(nil), p.Categories...)
	a.Sentiment = p.Sentiment
	a.Relevance = nil
}

// Prepare validates, analyzes and categorizes raw articles. Malformed
// articles and repeated IDs are rejected individually; the rest keep their
// input order. Analysis runs at most once per article across calls.
func (e *Engine) Prepare(ctx context.Context, raw []model.Article) ([]model.Article, []Rejection) {
	var rejected []Rejection
	accepted := make([]model.Article, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, a := range raw {
		err := validate.Article(a)
		if err == nil && seen[a.ID] {
			err = fmt.Errorf("%w: duplicate id %q", model.ErrMalformedArticle, a.ID)
		}
		if err != nil {
			rejected = append(rejected, Rejection{ArticleID: a.ID, Title: a.Title, URL: a.URL, Err: err})
			e.logger.Warn("skipping article", "id", a.ID, "url", a.URL, "error", err)
			continue
		}
		seen[a.ID] = true
		accepted = append(accepted, a.Clone())
	}

	workers := e.config.Concurrency.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := make(map[int]error)

	for i := range accepted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				failed[i] = ctx.Err()
				mu.Unlock()
				return
			}

			a := &accepted[i]
			key := cache.Key("analysis", a.ID, a.RawText, e.fingerprint)
			p, err := e.memo.Do(key, func() (preparedAnalysis, error) {
				return e.compute(a.RawText), nil
			})
			if err != nil {
				mu.Lock()
				failed[i] = err
				mu.Unlock()
				return
			}
			apply(a, p)
		}(i)
	}
	wg.Wait()

	if len(failed) == 0 {
		return accepted, rejected
	}

	prepared := accepted[:0]
	for i, a := range accepted {
		if err, ok := failed[i]; ok {
			rejected = append(rejected, Rejection{ArticleID: a.ID, Title: a.Title, URL: a.URL, Err: err})
			continue
		}
		prepared = append(prepared, a)
	}
	return prepared, rejected
}

// Personalize builds the bundle for one user from prepared articles. The
// prepared slice is not modified.
func (e *Engine) Personalize(prepared []model.Article, profile model.UserProfile, now time.Time) model.ArticleBundle {
	if profile.IsEmpty() {
		e.logger.Warn("profile has no interests, sources or categories; ranking by recency only", "user", profile.ID)
	}

	horizon := e.config.Scoring.RecencyHorizon
	scored := make([]model.Article, 0, len(prepared))
	for _, a := range prepared {
		if e.config.Selection.DropStale && isStale(a, now, horizon) {
			continue
		}
		c := a.Clone()
		rel := e.scorer.Score(c, profile, now)
		c.Relevance = &rel
		scored = append(scored, c)
	}

	distinct := e.deduper.Dedupe(scored)
	if dropped := len(scored) - len(distinct); dropped > 0 {
		e.logger.Debug("collapsed duplicates", "user", profile.ID, "dropped", dropped)
	}

	maxTop := e.config.Selection.MaxTopStories
	if profile.MaxTopStories > 0 {
		maxTop = profile.MaxTopStories
	}

	bundle := e.selector.Select(distinct, maxTop)
	bundle.UserID = profile.ID
	bundle.GeneratedAt = now
	return bundle
}

// isStale reports whether a is older than the horizon. Articles without a
// publish date count as stale.
func isStale(a model.Article, now time.Time, horizon time.Duration) bool {
	if horizon <= 0 {
		return false
	}
	if a.PublishedAt.IsZero() {
		return true
	}
	return now.Sub(a.PublishedAt) > horizon
}

// PersonalizeContext is Personalize plus the optional editor note. Note
// failures are logged and leave the note empty.
func (e *Engine) PersonalizeContext(ctx context.Context, prepared []model.Article, profile model.UserProfile, now time.Time) (model.ArticleBundle, error) {
	if err := ctx.Err(); err != nil {
		return model.ArticleBundle{}, err
	}

	bundle := e.Personalize(prepared, profile, now)

	if e.editor.IsEnabled() {
		note, err := e.editor.Note(ctx, profile, bundle.TopStories)
		if err != nil {
			e.logger.Warn("editor note failed", "user", profile.ID, "provider", e.editor.ProviderName(), "error", err)
		} else {
			bundle.EditorNote = note
		}
	}

	return bundle, nil
}

// PersonalizeAll builds one bundle per profile concurrently. Results follow
// the order of profiles.
func (e *Engine) PersonalizeAll(ctx context.Context, prepared []model.Article, profiles []model.UserProfile, now time.Time) []*worker.DigestResult {
	proc := worker.NewDigestProcessor(e, e.config.Concurrency.Workers)
	return proc.Process(ctx, prepared, profiles, now)
}
