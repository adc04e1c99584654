// Package feed turns RSS and Atom feeds into unanalyzed articles.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/feedwise/feedwise/internal/extract/adapters"
	"github.com/feedwise/feedwise/internal/model"
	"github.com/feedwise/feedwise/internal/worker"
)

// Collector fetches every configured feed politely and converts items
// into articles.
type Collector struct {
	cfg      model.FeedsConfig
	fetcher  *Fetcher
	robots   *RobotsChecker
	limiter  *worker.Limiter
	registry *adapters.Registry
	logger   *slog.Logger
	workers  int
	now      func() time.Time
}

// NewCollector creates a collector from the feeds configuration
func NewCollector(cfg model.FeedsConfig, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxItemsPerFeed <= 0 {
		cfg.MaxItemsPerFeed = 10
	}

	fetcher := NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	c := &Collector{
		cfg:      cfg,
		fetcher:  fetcher,
		limiter:  worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		registry: adapters.NewRegistry(),
		logger:   logger,
		workers:  runtime.NumCPU(),
		now:      time.Now,
	}
	if cfg.RespectRobots {
		c.robots = NewRobotsChecker(fetcher.Client(), cfg.UserAgent, cfg.Timeout)
	}
	return c
}

// WithWorkers bounds how many feeds are fetched at once
func (c *Collector) WithWorkers(n int) *Collector {
	if n > 0 {
		c.workers = n
	}
	return c
}

// Stats summarizes one collection run
type Stats struct {
	Feeds      int
	FeedsOK    int
	Items      int
	Duplicates int
}

// feedJob fetches one feed as a worker.Job
type feedJob struct {
	index     int
	category  string
	url       string
	collector *Collector
}

func (j *feedJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &feedResult{index: j.index, err: err}
	}
	articles, err := j.collector.CollectFeed(ctx, j.url, j.category)
	return &feedResult{index: j.index, articles: articles, err: err}
}

type feedResult struct {
	index    int
	articles []model.Article
	err      error
}

func (r *feedResult) GetError() error {
	return r.err
}

// Collect fetches all sources concurrently. A feed that fails is logged
// and skipped. Articles come back in category then feed order with literal
// duplicate URLs removed.
func (c *Collector) Collect(ctx context.Context, sources Sources) ([]model.Article, Stats) {
	var jobs []*feedJob
	for _, category := range sources.Categories() {
		for _, u := range sources[category] {
			jobs = append(jobs, &feedJob{index: len(jobs), category: category, url: u, collector: c})
		}
	}

	results := make([]*feedResult, len(jobs))
	if len(jobs) > 0 {
		pool := worker.NewPool(ctx, c.workers)
		pool.Start()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				results[job.index] = &feedResult{index: job.index, err: err}
			}
		}
		for _, r := range pool.Wait() {
			res := r.(*feedResult)
			results[res.index] = res
		}
	}
	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &feedResult{index: i, err: err}
		}
	}

	stats := Stats{Feeds: len(jobs)}
	seen := make(map[string]bool)
	var out []model.Article

	for i, r := range results {
		if r.err != nil {
			c.logger.Warn("feed skipped", "url", jobs[i].url, "error", r.err)
			continue
		}
		stats.FeedsOK++
		c.logger.Debug("feed loaded", "url", jobs[i].url, "items", len(r.articles))
		for _, a := range r.articles {
			if seen[a.ID] {
				stats.Duplicates++
				continue
			}
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	stats.Items = len(out)

	c.logger.Info("feeds processed", "ok", stats.FeedsOK, "total", stats.Feeds, "articles", stats.Items)
	return out, stats
}

// CollectFeed fetches and converts a single feed
func (c *Collector) CollectFeed(ctx context.Context, feedURL, category string) ([]model.Article, error) {
	res, err := c.politeFetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	now := c.now().UTC()
	items := parsed.Items
	if len(items) > c.cfg.MaxItemsPerFeed {
		items = items[:c.cfg.MaxItemsPerFeed]
	}

	articles := make([]model.Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		a := ToArticle(item, parsed, feedURL, category, now)
		if c.cfg.FetchFullText && a.URL != "" {
			c.fillFullText(ctx, &a)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// fillFullText replaces the feed snippet with the extracted page body when
// the page yields more text. Failures keep the snippet.
func (c *Collector) fillFullText(ctx context.Context, a *model.Article) {
	res, err := c.politeFetch(ctx, a.URL)
	if err != nil {
		c.logger.Debug("full text fetch failed", "url", a.URL, "error", err)
		return
	}
	body, err := c.registry.Extract(string(res.Body), res.FinalURL)
	if err != nil {
		c.logger.Debug("full text extraction failed", "url", a.URL, "error", err)
		return
	}
	if len(body) > len(a.RawText) {
		a.RawText = body
	}
}

// politeFetch honours robots.txt and the per-host rate limit before fetching
func (c *Collector) politeFetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if c.robots != nil {
		allowed, delay, err := c.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		c.limiter.ApplyCrawlDelay(rawURL, delay)
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	res, err := c.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return res, nil
}
