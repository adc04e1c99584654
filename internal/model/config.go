package model

import (
	"runtime"
	"time"
)

// Config holds all feedwise configuration. Field tags serve both the YAML
// config file and viper's mapstructure decoding.
type Config struct {
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Categorize  CategorizeConfig  `yaml:"categorize" mapstructure:"categorize"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Dedupe      DedupeConfig      `yaml:"dedupe" mapstructure:"dedupe"`
	Selection   SelectionConfig   `yaml:"selection" mapstructure:"selection"`
	Feeds       FeedsConfig       `yaml:"feeds" mapstructure:"feeds"`
	Profiles    ProfilesConfig    `yaml:"profiles" mapstructure:"profiles"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Schedule    ScheduleConfig    `yaml:"schedule" mapstructure:"schedule"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig tunes keyword extraction and summarization.
type AnalysisConfig struct {
	MaxKeywords      int `yaml:"max_keywords" mapstructure:"max_keywords"`
	KeywordMinLength int `yaml:"keyword_min_length" mapstructure:"keyword_min_length"`
	SummarySentences int `yaml:"summary_sentences" mapstructure:"summary_sentences"`
	SummaryMaxChars  int `yaml:"summary_max_chars" mapstructure:"summary_max_chars"`
}

// CategorizeConfig configures the taxonomy and assignment threshold.
type CategorizeConfig struct {
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	TaxonomyFile  string  `yaml:"taxonomy_file" mapstructure:"taxonomy_file"`
}

// ScoringConfig holds relevance weights. Weights are not required to sum to 1;
// the final score is clamped to [0,1].
type ScoringConfig struct {
	InterestWeight  float64       `yaml:"interest_weight" mapstructure:"interest_weight"`
	SourceWeight    float64       `yaml:"source_weight" mapstructure:"source_weight"`
	RecencyWeight   float64       `yaml:"recency_weight" mapstructure:"recency_weight"`
	CategoryWeight  float64       `yaml:"category_weight" mapstructure:"category_weight"`
	ExcludedPenalty float64       `yaml:"excluded_penalty" mapstructure:"excluded_penalty"`
	RecencyHorizon  time.Duration `yaml:"recency_horizon" mapstructure:"recency_horizon"`
}

// DedupeConfig configures near-duplicate detection.
type DedupeConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// SelectionConfig configures bundle assembly.
type SelectionConfig struct {
	MaxTopStories int  `yaml:"max_top_stories" mapstructure:"max_top_stories"`
	DropStale     bool `yaml:"drop_stale" mapstructure:"drop_stale"`
}

// FeedsConfig configures the feed collaborator.
type FeedsConfig struct {
	File              string        `yaml:"file" mapstructure:"file"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxItemsPerFeed   int           `yaml:"max_items_per_feed" mapstructure:"max_items_per_feed"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	FetchFullText     bool          `yaml:"fetch_full_text" mapstructure:"fetch_full_text"`
	CheckLinks        bool          `yaml:"check_links" mapstructure:"check_links"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ProfilesConfig points at the user profile file.
type ProfilesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// CacheConfig configures the analysis memo cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig configures digest rendering.
type OutputConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	Formats       []string `yaml:"formats" mapstructure:"formats"`
	IncludeFooter bool     `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool     `yaml:"-" mapstructure:"-"`
}

// LLMConfig configures the optional editor note. An empty provider disables it.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
}

// ConcurrencyConfig sizes the per-user worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ScheduleConfig configures the recurring digest run.
type ScheduleConfig struct {
	Cron     string `yaml:"cron" mapstructure:"cron"`
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxKeywords:      15,
			KeywordMinLength: 3,
			SummarySentences: 3,
			SummaryMaxChars:  400,
		},
		Categorize: CategorizeConfig{
			MinConfidence: 0.1,
		},
		Scoring: ScoringConfig{
			InterestWeight:  0.6,
			SourceWeight:    0.25,
			RecencyWeight:   0.15,
			CategoryWeight:  0,
			ExcludedPenalty: 0.5,
			RecencyHorizon:  7 * 24 * time.Hour,
		},
		Dedupe: DedupeConfig{
			Threshold: 0.8,
		},
		Selection: SelectionConfig{
			MaxTopStories: 3,
		},
		Feeds: FeedsConfig{
			File:              "feeds.yaml",
			Timeout:           30 * time.Second,
			MaxItemsPerFeed:   10,
			MaxBodyBytes:      2_000_000,
			UserAgent:         "feedwise/0.1 (+https://github.com/feedwise/feedwise)",
			RequestsPerSecond: 1,
			Burst:             2,
			RespectRobots:     true,
		},
		Profiles: ProfilesConfig{
			File: "profiles.yaml",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "~/.feedwise/cache",
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Dir:           "./digests",
			Formats:       []string{"md", "html"},
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Timeout:     30,
			MaxTokens:   300,
			Temperature: 0.3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Schedule: ScheduleConfig{
			Cron:     "0 6 * * *",
			Timezone: "UTC",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
