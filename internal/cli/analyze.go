package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/feedwise/feedwise/internal/extract/adapters"
	"github.com/feedwise/feedwise/internal/feed"
	"github.com/feedwise/feedwise/internal/model"
	"github.com/feedwise/feedwise/internal/pipeline"
	"github.com/feedwise/feedwise/internal/profile"
)

var (
	analyzeUser    string
	analyzeJSON    bool
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|file>",
	Short: "Analyze a single article and show keywords, categories and summary",
	Long: `Analyze runs the article stages on one page or text file:
- Extract the article body (site adapters for known publishers)
- Rank keywords and build an extractive summary
- Assign topic categories with confidences
- Optionally score the article for one user profile, with every signal shown

Example:
  feedwise analyze https://www.bbc.com/news/articles/example
  feedwise analyze article.txt --user alex_parker
  feedwise analyze page.html --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "score the article for this profile id")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analyzed article as JSON")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "fetch timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Loading %s...\n", args[0])
	}
	article, err := loadArticle(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	engine, err := pipeline.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	analyzed := engine.Analyze(article)

	if analyzeUser != "" {
		profiles, _, err := profile.LoadOrDefault(cfg.Profiles.File)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		selected, err := profile.Select(profiles, []string{analyzeUser})
		if err != nil {
			return err
		}
		bundle := engine.Personalize([]model.Article{analyzed}, selected[0], time.Now().UTC())
		for _, a := range bundle.TopStories {
			analyzed.Relevance = a.Relevance
		}
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analyzed)
	}
	printAnalysis(os.Stdout, analyzed)
	return nil
}

// loadArticle reads a URL or a local file into an unanalyzed article.
// HTML input goes through the site adapters; anything else is taken as text.
func loadArticle(ctx context.Context, cfg *model.Config, target string) (model.Article, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		fetcher := feed.NewFetcher(analyzeTimeout, cfg.Feeds.UserAgent, cfg.Feeds.MaxBodyBytes,
			cfg.Feeds.HTTPProxy, cfg.Feeds.HTTPSProxy, cfg.Feeds.NoProxy)
		res, err := fetcher.FetchWithRetry(ctx, target)
		if err != nil {
			return model.Article{}, fmt.Errorf("fetch %s: %w", target, err)
		}
		return articleFromHTML(string(res.Body), res.FinalURL)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return model.Article{}, fmt.Errorf("read %s: %w", target, err)
	}
	content := string(data)
	ext := strings.ToLower(filepath.Ext(target))
	if ext == ".html" || ext == ".htm" {
		return articleFromHTML(content, "")
	}

	title := strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
	return model.Article{
		ID:          feed.ArticleID("", "file", title),
		Title:       title,
		Source:      "file",
		PublishedAt: time.Now().UTC(),
		RawText:     content,
	}, nil
}

func articleFromHTML(html, pageURL string) (model.Article, error) {
	body, err := adapters.NewRegistry().Extract(html, pageURL)
	if err != nil {
		return model.Article{}, err
	}

	a := model.Article{
		URL:         feed.CanonicalURL(pageURL),
		Title:       pageTitle(html),
		Source:      "file",
		PublishedAt: time.Now().UTC(),
		RawText:     body,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		a.Source = strings.TrimPrefix(u.Hostname(), "www.")
	}
	a.ID = feed.ArticleID(a.URL, a.Source, a.Title)
	return a, nil
}

// pageTitle prefers og:title over the document title
func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func printAnalysis(w io.Writer, a model.Article) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", a.Title)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	if a.URL != "" {
		fmt.Fprintf(w, "  Source:     %s (%s)\n", a.Source, a.URL)
	}
	fmt.Fprintf(w, "  Sentiment:  %+.2f\n", a.Sentiment)
	fmt.Fprintf(w, "  Keywords:   %s\n", strings.Join(a.Keywords, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Categories:")
	for _, c := range a.Categories {
		fmt.Fprintf(w, "    %-14s %.2f\n", c.Name, c.Confidence)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Summary:")
	if a.Summary == "" {
		fmt.Fprintln(w, "    (text too short to summarize)")
	} else {
		fmt.Fprintf(w, "    %s\n", a.Summary)
	}

	if a.Relevance != nil {
		r := a.Relevance
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Relevance:  %.3f", r.Score)
		if r.Degraded {
			fmt.Fprint(w, " (recency only)")
		}
		fmt.Fprintln(w)
		for _, s := range r.Signals {
			fmt.Fprintf(w, "    [%s] %s\n", s.Type, s.Description)
		}
	}
	fmt.Fprintln(w)
}
