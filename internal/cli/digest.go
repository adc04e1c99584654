package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feedwise/feedwise/internal/cache"
	"github.com/feedwise/feedwise/internal/feed"
	"github.com/feedwise/feedwise/internal/llm"
	"github.com/feedwise/feedwise/internal/model"
	"github.com/feedwise/feedwise/internal/pipeline"
	"github.com/feedwise/feedwise/internal/profile"
	"github.com/feedwise/feedwise/internal/render"
	"github.com/feedwise/feedwise/internal/validate"
)

var (
	userIDs       []string
	categoryNames []string
	runTimeout    time.Duration
	dryRun        bool
	noCache       bool
	noFooter      bool
)

// digestCmd represents the digest command
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Collect feeds and write a personalized digest for every user",
	Long: `Digest runs the full pipeline once:
- Fetch every feed in the feeds file (politely: robots.txt, per-host rate limits)
- Analyze each article once: keywords, summary, categories
- Score, deduplicate and select stories for every user profile in parallel
- Write one digest per user in each configured format

Example:
  feedwise digest
  feedwise digest --feeds feeds.yaml --profiles profiles.yaml --output-dir ./digests
  feedwise digest --users alex_parker --format md,json --max-top 5
  feedwise digest --dry-run --categories technology,science`,
	Args:    cobra.NoArgs,
	PreRunE: bindDigestFlags,
	RunE:    runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
	addDigestFlags(digestCmd)

	digestCmd.Flags().StringSliceVar(&userIDs, "users", nil, "only build digests for these profile ids")
	digestCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print digests to stdout instead of writing files")
}

// addDigestFlags registers the config-backed flags shared by digest and schedule.
func addDigestFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("feeds", "", "feeds file (category -> feed URLs)")
	f.String("profiles", "", "profiles file")
	f.String("output-dir", "", "output directory for digests")
	f.StringSlice("format", nil, "output formats (md, html, json, email)")
	f.Int("workers", 0, "number of concurrent workers")
	f.Int("max-top", 0, "number of top stories per digest")
	f.Bool("check-links", false, "drop articles whose links are dead")
	f.Bool("full-text", false, "fetch article pages when feeds carry only teasers")
	f.String("llm-provider", "", "LLM provider for the editor note (openai, anthropic, ollama, gemini)")
	f.String("llm-model", "", "LLM model name")
	f.StringSliceVar(&categoryNames, "categories", nil, "only fetch feeds of these categories")
	f.DurationVar(&runTimeout, "timeout", 10*time.Minute, "total timeout for one digest run")
	f.BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	f.BoolVar(&noFooter, "no-footer", false, "omit the preferences footer")
}

var digestFlagKeys = map[string]string{
	"feeds":        "feeds.file",
	"profiles":     "profiles.file",
	"output-dir":   "output.dir",
	"format":       "output.formats",
	"workers":      "concurrency.workers",
	"max-top":      "selection.max_top_stories",
	"check-links":  "feeds.check_links",
	"full-text":    "feeds.fetch_full_text",
	"llm-provider": "llm.provider",
	"llm-model":    "llm.model",
}

// bindDigestFlags binds the running command's flags so an unset flag never
// shadows the config file.
func bindDigestFlags(cmd *cobra.Command, args []string) error {
	for name, key := range digestFlagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	stats, err := runDigestOnce(ctx, cfg, logger, digestOptions{
		users:      userIDs,
		categories: categoryNames,
		dryRun:     dryRun,
		stdout:     os.Stdout,
		progress:   os.Stderr,
	})
	if err != nil {
		return err
	}
	if stats.Failures > 0 && stats.Success == 0 {
		return fmt.Errorf("all %d digests failed", stats.Failures)
	}
	return nil
}

// applyRunFlags applies the flags that have no config key of their own.
func applyRunFlags(cfg *model.Config) {
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
}

type digestOptions struct {
	users      []string
	categories []string
	dryRun     bool
	stdout     io.Writer
	progress   io.Writer
}

type digestStats struct {
	Articles int
	Rejected int
	Dead     int
	Success  int
	Failures int
	Files    int
}

// runDigestOnce performs one complete digest run. Progress goes to
// opts.progress as banners and one line per item.
func runDigestOnce(ctx context.Context, cfg *model.Config, logger *slog.Logger, opts digestOptions) (digestStats, error) {
	var stats digestStats
	out := opts.progress
	if out == nil {
		out = io.Discard
	}

	if err := render.ValidateFormats(cfg.Output.Formats); err != nil {
		return stats, err
	}

	sources, err := loadSources(cfg.Feeds.File, out)
	if err != nil {
		return stats, err
	}
	if len(opts.categories) > 0 {
		sources = sources.Only(opts.categories)
		if sources.Len() == 0 {
			return stats, fmt.Errorf("no feeds in categories %s", strings.Join(opts.categories, ", "))
		}
	}

	profiles, defaults, err := profile.LoadOrDefault(cfg.Profiles.File)
	if err != nil {
		return stats, fmt.Errorf("load profiles: %w", err)
	}
	if profiles, err = profile.Select(profiles, opts.users); err != nil {
		return stats, err
	}

	editor, err := llm.NewEditor(llm.ConfigFromModel(cfg.LLM, cfg.Feeds), logger)
	if err != nil {
		return stats, fmt.Errorf("initialize LLM provider: %w", err)
	}
	engine, err := pipeline.NewEngine(cfg, logger,
		pipeline.WithCache(cache.New(cfg.Cache)),
		pipeline.WithEditor(editor),
	)
	if err != nil {
		return stats, err
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "  feedwise Digest\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Feeds:        %d in %d categories\n", sources.Len(), len(sources.Categories()))
	if defaults {
		fmt.Fprintf(out, "  Profiles:     %d (built-in personas)\n", len(profiles))
	} else {
		fmt.Fprintf(out, "  Profiles:     %d from %s\n", len(profiles), cfg.Profiles.File)
	}
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Concurrency.Workers)
	if !opts.dryRun {
		fmt.Fprintf(out, "  Output dir:   %s\n", cfg.Output.Dir)
		fmt.Fprintf(out, "  Formats:      %s\n", strings.Join(cfg.Output.Formats, ", "))
	}
	if editor.IsEnabled() {
		fmt.Fprintf(out, "  LLM:          %s/%s\n", editor.ProviderName(), cfg.LLM.Model)
	}
	fmt.Fprintf(out, "\n")

	// 1. Collect
	fmt.Fprintf(out, "⚙️  Fetching feeds...\n")
	collector := feed.NewCollector(cfg.Feeds, logger).WithWorkers(cfg.Concurrency.Workers)
	articles, collected := collector.Collect(ctx, sources)
	fmt.Fprintf(out, "✓ Collected %d articles from %d/%d feeds\n", len(articles), collected.FeedsOK, collected.Feeds)
	if collected.Feeds > 0 && collected.FeedsOK == 0 {
		return stats, errors.New("every feed failed; nothing to digest")
	}

	// 2. Optional link check
	if cfg.Feeds.CheckLinks {
		fmt.Fprintf(out, "⚙️  Checking article links...\n")
		checker := validate.NewLinkChecker(nil, cfg.Concurrency.Workers, cfg.Feeds.UserAgent)
		var dead []validate.LinkResult
		articles, dead = validate.FilterLive(articles, checker.Check(ctx, articles))
		for _, d := range dead {
			fmt.Fprintf(out, "✗ dead link %s (HTTP %d)\n", d.URL, d.StatusCode)
		}
		stats.Dead = len(dead)
	}

	// 3. Analyze once per article
	fmt.Fprintf(out, "⚙️  Analyzing articles...\n")
	prepared, rejected := engine.Prepare(ctx, articles)
	for _, r := range rejected {
		fmt.Fprintf(out, "✗ %s: %v\n", displayName(r), r.Err)
	}
	stats.Articles = len(prepared)
	stats.Rejected = len(rejected)
	hits, misses := engine.AnalysisStats()
	fmt.Fprintf(out, "✓ Prepared %d articles (%d analyzed, %d from cache)\n", len(prepared), misses, hits)
	fmt.Fprintf(out, "\n")

	// 4. Personalize per user
	fmt.Fprintf(out, "⚙️  Building digests with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(out, "\n")
	now := time.Now().UTC()
	results := engine.PersonalizeAll(ctx, prepared, profiles, now)

	renderer := render.NewRenderer(cfg.Output.IncludeFooter)
	writer := render.NewWriter(cfg.Output.Dir, renderer)

	for _, result := range results {
		if result.Error != nil {
			stats.Failures++
			fmt.Fprintf(out, "✗ %s: %v\n", result.Profile.ID, result.Error)
			continue
		}

		if opts.dryRun {
			renderer.Summary(opts.stdout, result.Bundle, result.Profile)
			stats.Success++
			continue
		}

		paths, err := writer.Write(result.Bundle, result.Profile, cfg.Output.Formats)
		if err != nil {
			stats.Failures++
			fmt.Fprintf(out, "✗ %s: %v\n", result.Profile.ID, err)
			continue
		}
		stats.Success++
		stats.Files += len(paths)
		fmt.Fprintf(out, "✓ %s (%d top stories, %d articles)\n", result.Profile.ID, len(result.Bundle.TopStories), result.Bundle.Len())
		if cfg.Output.Verbose {
			for _, p := range paths {
				fmt.Fprintf(out, "    %s\n", p)
			}
		}
	}

	// Summary
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "  Digest Complete\n")
	fmt.Fprintf(out, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Articles:  %d (%d rejected, %d dead links)\n", stats.Articles, stats.Rejected, stats.Dead)
	fmt.Fprintf(out, "  Success:   %d\n", stats.Success)
	fmt.Fprintf(out, "  Failures:  %d\n", stats.Failures)
	if !opts.dryRun {
		fmt.Fprintf(out, "  Files:     %d in %s\n", stats.Files, cfg.Output.Dir)
	}
	fmt.Fprintf(out, "\n")

	return stats, nil
}

// loadSources reads the feeds file, falling back to the built-in feed list
// when it does not exist.
func loadSources(path string, out io.Writer) (feed.Sources, error) {
	if path == "" {
		return feed.DefaultSources(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Feeds file %s not found (using built-in feeds)\n", path)
		return feed.DefaultSources(), nil
	}
	return feed.LoadSources(path)
}

func displayName(r pipeline.Rejection) string {
	switch {
	case r.URL != "":
		return r.URL
	case r.Title != "":
		return r.Title
	case r.ArticleID != "":
		return r.ArticleID
	}
	return "(unnamed article)"
}
