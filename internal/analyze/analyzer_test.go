package analyze

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/feedwise/feedwise/internal/model"
)

func newTestAnalyzer(cfg model.AnalysisConfig) *Analyzer {
	return New(cfg, DefaultResources())
}

func TestAnalyze_EmptyText(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	for _, raw := range []string{"", "   ", "\n\t  \n"} {
		got := a.Analyze(raw)
		if got.Summary != "" {
			t.Errorf("Analyze(%q).Summary = %q, want empty", raw, got.Summary)
		}
		if len(got.Keywords) != 0 {
			t.Errorf("Analyze(%q).Keywords = %v, want none", raw, got.Keywords)
		}
		if got.Sentiment != 0 {
			t.Errorf("Analyze(%q).Sentiment = %v, want 0", raw, got.Sentiment)
		}
	}
}

func TestAnalyze_KeywordsRankedByFrequency(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	text := "AI startups raise funding. The AI startup market grows. Funding for AI is strong."
	got := a.Analyze(text)

	if len(got.Keywords) < 3 {
		t.Fatalf("expected at least 3 keywords, got %v", got.Keywords)
	}
	want := []string{"ai", "startups", "funding"}
	if !reflect.DeepEqual(got.Keywords[:3], want) {
		t.Errorf("top keywords = %v, want %v", got.Keywords[:3], want)
	}

	for _, kw := range got.Keywords {
		if kw == "the" || kw == "for" || kw == "is" {
			t.Errorf("stopword %q leaked into keywords", kw)
		}
	}
}

func TestAnalyze_KeywordFilters(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	got := a.Analyze("We go to the zoo in 2024 to watch the NBA finals.")
	set := make(map[string]bool)
	for _, kw := range got.Keywords {
		set[kw] = true
	}

	if set["go"] {
		t.Error("short word 'go' should be dropped")
	}
	if set["2024"] {
		t.Error("numeric token should be dropped")
	}
	if !set["zoo"] {
		t.Errorf("expected 'zoo' in keywords, got %v", got.Keywords)
	}
	if !set["nba"] {
		t.Errorf("expected acronym 'nba' in keywords, got %v", got.Keywords)
	}
}

func TestAnalyze_MaxKeywords(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{MaxKeywords: 2})

	got := a.Analyze("Rockets launch satellites while engineers monitor telemetry and weather.")
	if len(got.Keywords) != 2 {
		t.Errorf("len(Keywords) = %d, want 2 (%v)", len(got.Keywords), got.Keywords)
	}
}

func TestAnalyze_SummaryPicksCentralSentences(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	text := "Quantum computing research accelerates. " +
		"Quantum computing labs expand research. " +
		"Researchers praise quantum computing progress. " +
		"Weather was mild today."

	got := a.Analyze(text)

	if strings.Contains(got.Summary, "Weather") {
		t.Errorf("summary should drop the off-topic sentence, got %q", got.Summary)
	}
	if !strings.HasPrefix(got.Summary, "Quantum computing research accelerates.") {
		t.Errorf("summary should keep document order, got %q", got.Summary)
	}
	if n := len(splitSentences(got.Summary)); n != 3 {
		t.Errorf("summary has %d sentences, want 3", n)
	}
}

func TestAnalyze_SummaryLengthBound(t *testing.T) {
	text := "Alpha beta gamma delta epsilon zeta eta. Theta iota kappa lambda mu nu xi omicron."

	t.Run("drops trailing sentences", func(t *testing.T) {
		a := newTestAnalyzer(model.AnalysisConfig{SummaryMaxChars: 50})
		got := a.Analyze(text)
		if got.Summary != "Alpha beta gamma delta epsilon zeta eta." {
			t.Errorf("Summary = %q", got.Summary)
		}
	})

	t.Run("never cuts mid sentence", func(t *testing.T) {
		a := newTestAnalyzer(model.AnalysisConfig{SummaryMaxChars: 10})
		got := a.Analyze(text)
		if got.Summary != "" {
			t.Errorf("Summary = %q, want empty", got.Summary)
		}
	})

	t.Run("skips an overlong lead sentence", func(t *testing.T) {
		a := newTestAnalyzer(model.AnalysisConfig{SummaryMaxChars: 200})
		lead := "The report " + strings.Repeat("covers lengthy detail ", 30) + "at last."
		got := a.Analyze(lead + " Rates held steady. Banks reacted calmly.")
		if got.Summary != "Rates held steady. Banks reacted calmly." {
			t.Errorf("Summary = %q", got.Summary)
		}
	})

	t.Run("default bound", func(t *testing.T) {
		a := newTestAnalyzer(model.AnalysisConfig{})
		long := strings.Repeat("Markets rallied on strong earnings from technology companies. ", 40)
		got := a.Analyze(long)
		if len([]rune(got.Summary)) > 400 {
			t.Errorf("summary length %d exceeds 400", len([]rune(got.Summary)))
		}
	})
}

func TestAnalyze_StripsHTML(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	got := a.Analyze(`<p>Telescope images reveal distant galaxy.</p><script>var tracking = 1;</script>`)
	for _, kw := range got.Keywords {
		if kw == "var" || kw == "tracking" {
			t.Errorf("script content leaked into keywords: %v", got.Keywords)
		}
	}
	if got.Summary != "Telescope images reveal distant galaxy." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestAnalyze_Sentiment(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	got := a.Analyze("A great success overshadowed by a terrible failure and a crisis.")
	if math.Abs(got.Sentiment-(-0.2)) > 1e-9 {
		t.Errorf("Sentiment = %v, want -0.2", got.Sentiment)
	}

	neutral := a.Analyze("The committee met on Tuesday.")
	if neutral.Sentiment != 0 {
		t.Errorf("neutral Sentiment = %v, want 0", neutral.Sentiment)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})
	text := "Central banks weigh rate cuts. Investors watch inflation data. Banks report profits. Rate decisions loom."

	first := a.Analyze(text)
	for i := 0; i < 5; i++ {
		if got := a.Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestNormalize(t *testing.T) {
	a := newTestAnalyzer(model.AnalysisConfig{})

	tests := []struct {
		term string
		want []string
	}{
		{"AI", []string{"ai"}},
		{"global markets", []string{"global", "market"}},
		{"the", nil},
		{"Startups", []string{"startup"}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if got := a.Normalize(tt.term); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Dr. Smith arrived.Then left! Really? yes")
	want := []string{"Dr.", "Smith arrived.Then left!", "Really?", "yes"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitSentences = %q, want %q", got, want)
	}
}
