package worker

import (
	"context"
	"sort"
	"time"

	"github.com/feedwise/feedwise/internal/model"
)

// Personalizer builds one user's bundle from already analyzed articles.
type Personalizer interface {
	PersonalizeContext(ctx context.Context, prepared []model.Article, profile model.UserProfile, now time.Time) (model.ArticleBundle, error)
}

// DigestJob personalizes the shared article set for a single user
type DigestJob struct {
	Index        int
	Profile      model.UserProfile
	Prepared     []model.Article
	Now          time.Time
	Personalizer Personalizer
}

// Execute executes the digest job
func (j *DigestJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &DigestResult{Index: j.Index, Profile: j.Profile, Error: err}
	}

	bundle, err := j.Personalizer.PersonalizeContext(ctx, j.Prepared, j.Profile, j.Now)
	if err != nil {
		return &DigestResult{Index: j.Index, Profile: j.Profile, Error: err}
	}
	return &DigestResult{Index: j.Index, Profile: j.Profile, Bundle: bundle}
}

// DigestResult is the outcome of one user's digest job
type DigestResult struct {
	Index   int
	Profile model.UserProfile
	Bundle  model.ArticleBundle
	Error   error
}

// GetError returns the error from the digest result
func (r *DigestResult) GetError() error {
	return r.Error
}

// DigestProcessor fans per-user jobs out over a worker pool
type DigestProcessor struct {
	personalizer Personalizer
	concurrency  int
}

// NewDigestProcessor creates a new digest processor
func NewDigestProcessor(personalizer Personalizer, concurrency int) *DigestProcessor {
	return &DigestProcessor{
		personalizer: personalizer,
		concurrency:  concurrency,
	}
}

// Process runs one job per profile and returns results in profile order.
// Every profile gets a result; jobs that could not run carry the context error.
func (d *DigestProcessor) Process(ctx context.Context, prepared []model.Article, profiles []model.UserProfile, now time.Time) []*DigestResult {
	if len(profiles) == 0 {
		return []*DigestResult{}
	}

	pool := NewPool(ctx, d.concurrency)
	pool.Start()

	out := make([]*DigestResult, len(profiles))
	for i, p := range profiles {
		job := &DigestJob{
			Index:        i,
			Profile:      p,
			Prepared:     prepared,
			Now:          now,
			Personalizer: d.personalizer,
		}
		if err := pool.Submit(job); err != nil {
			out[i] = &DigestResult{Index: i, Profile: p, Error: err}
		}
	}

	for _, r := range pool.Wait() {
		res := r.(*DigestResult)
		out[res.Index] = res
	}

	for i, p := range profiles {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DigestResult{Index: i, Profile: p, Error: err}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
