package validate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/feedwise/feedwise/internal/model"
)

const linkMaxRetries = 3

// linkSleepFunc is the sleep function used between retries (injectable for tests)
var linkSleepFunc = time.Sleep

// LinkResult is the outcome of checking one article link
type LinkResult struct {
	ArticleID   string
	URL         string
	StatusCode  int
	Accessible  bool
	Dead        bool
	RedirectURL string
	Error       string
}

// LinkChecker issues HEAD requests for article links concurrently
type LinkChecker struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
}

// NewLinkChecker creates a link checker. A nil client gets a default one
// that follows at most 3 redirects.
func NewLinkChecker(client *http.Client, maxWorkers int, userAgent string) *LinkChecker {
	if maxWorkers <= 0 {
		maxWorkers = 20
	}
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		}
	}
	return &LinkChecker{httpClient: client, maxWorkers: maxWorkers, userAgent: userAgent}
}

// Check checks every article link. Results are in input order.
func (c *LinkChecker) Check(ctx context.Context, articles []model.Article) []LinkResult {
	results := make([]LinkResult, len(articles))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, c.maxWorkers)

	for i, a := range articles {
		wg.Add(1)
		go func(idx int, a model.Article) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = LinkResult{ArticleID: a.ID, URL: a.URL, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkWithRetry(ctx, a)
		}(i, a)
	}

	wg.Wait()
	return results
}

// FilterLive drops articles whose link is known dead. Articles whose check
// failed for transient reasons are kept.
func FilterLive(articles []model.Article, results []LinkResult) ([]model.Article, []LinkResult) {
	dead := make(map[string]bool)
	for _, r := range results {
		if r.Dead {
			dead[r.ArticleID] = true
		}
	}

	kept := make([]model.Article, 0, len(articles))
	var dropped []LinkResult
	for _, a := range articles {
		if dead[a.ID] {
			continue
		}
		kept = append(kept, a)
	}
	for _, r := range results {
		if r.Dead {
			dropped = append(dropped, r)
		}
	}
	return kept, dropped
}

func (c *LinkChecker) checkSingle(ctx context.Context, a model.Article) LinkResult {
	result := LinkResult{ArticleID: a.ID, URL: a.URL}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.URL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.Dead = true
		return result
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != a.URL {
		result.RedirectURL = final
	}
	return result
}

// checkWithRetry retries transient failures with exponential backoff
func (c *LinkChecker) checkWithRetry(ctx context.Context, a model.Article) LinkResult {
	var result LinkResult
	for attempt := 0; attempt < linkMaxRetries; attempt++ {
		result = c.checkSingle(ctx, a)
		if !isRetryable(result) || ctx.Err() != nil {
			return result
		}
		if attempt < linkMaxRetries-1 {
			linkSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return result
}

func isRetryable(result LinkResult) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
