// Package analyze turns raw article text into a summary, ranked keywords and
// a sentiment estimate.
package analyze

import (
	"strings"

	"github.com/feedwise/feedwise/internal/extract"
	"github.com/feedwise/feedwise/internal/model"
)

// Analysis is the result of analyzing one article body.
type Analysis struct {
	Summary   string
	Keywords  []string
	Sentiment float64
}

// Analyzer is deterministic and safe for concurrent use.
type Analyzer struct {
	cfg model.AnalysisConfig
	res *Resources
}

// New creates an analyzer. Zero config fields fall back to the defaults and a
// nil resource set means DefaultResources.
func New(cfg model.AnalysisConfig, res *Resources) *Analyzer {
	def := model.DefaultConfig().Analysis
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = def.MaxKeywords
	}
	if cfg.KeywordMinLength <= 0 {
		cfg.KeywordMinLength = def.KeywordMinLength
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = def.SummarySentences
	}
	if cfg.SummaryMaxChars <= 0 {
		cfg.SummaryMaxChars = def.SummaryMaxChars
	}
	if res == nil {
		res = DefaultResources()
	}
	return &Analyzer{cfg: cfg, res: res}
}

// Analyze extracts the summary, keywords and sentiment of raw. Empty or
// whitespace-only input yields a zero Analysis, not an error.
func (a *Analyzer) Analyze(raw string) Analysis {
	text := Clean(raw)
	if text == "" {
		return Analysis{Keywords: []string{}}
	}

	tokens := a.contentTokens(text)
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t.stem]++
	}

	return Analysis{
		Summary:   a.summarize(text, freq),
		Keywords:  a.keywords(tokens, freq),
		Sentiment: a.sentiment(text),
	}
}

// Clean strips markup and collapses whitespace.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if strings.Contains(raw, "<") && strings.Contains(raw, ">") {
		if text, err := extract.VisibleText(raw); err == nil {
			raw = text
		}
	}
	return strings.Join(strings.Fields(raw), " ")
}

// sentiment is (pos - neg) / (pos + neg) over lexicon hits.
func (a *Analyzer) sentiment(text string) float64 {
	var pos, neg int
	for _, w := range words(text) {
		switch a.res.polarity(strings.ToLower(w)) {
		case 1:
			pos++
		case -1:
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
