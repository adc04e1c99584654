// Package llm writes an optional editor's note for a finished digest.
// The note is generated after selection and never influences it.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/feedwise/feedwise/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Note writes a short editor's note for the selected stories
	Note(ctx context.Context, req NoteRequest) (*NoteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NoteRequest contains the input for an editor's note
type NoteRequest struct {
	Profile model.UserProfile
	Stories []model.Article

	// AllowedURLs is the only set of links the note may cite
	AllowedURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// NoteResponse contains the generated note
type NoteResponse struct {
	Note       string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout     int // seconds
	MaxTokens   int
	Temperature float32

	// StrictCitations rejects notes that link anywhere but the stories
	StrictCitations bool

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled default configuration
func DefaultConfig() Config {
	return Config{
		Provider:        "",
		Timeout:         30,
		MaxTokens:       300,
		Temperature:     0.3,
		StrictCitations: true,
	}
}

const systemPrompt = "You are the editor of a personalized news digest. You write brief, neutral introductions and only reference the stories you are given."

// BuildPrompt constructs the default prompt for an editor's note
func BuildPrompt(profile model.UserProfile, stories []model.Article) string {
	var b strings.Builder

	name := profile.DisplayName
	if name == "" {
		name = profile.ID
	}

	fmt.Fprintf(&b, "Write a 2-3 sentence editor's note introducing today's top stories for %s.\n\n", name)
	b.WriteString("RULES:\n")
	b.WriteString("1. Only mention the stories listed below.\n")
	b.WriteString("2. If you include a link, it MUST be one of the story URLs below.\n")
	b.WriteString("3. Do not speculate beyond the summaries.\n\n")

	if len(profile.Interests) > 0 {
		fmt.Fprintf(&b, "Reader interests: %s\n\n", strings.Join(profile.Interests, ", "))
	}

	b.WriteString("Top stories:\n")
	for i, a := range stories {
		fmt.Fprintf(&b, "%d. %s (%s)\n   URL: %s\n", i+1, a.Title, a.Source, a.URL)
		if a.Summary != "" {
			fmt.Fprintf(&b, "   Summary: %s\n", a.Summary)
		}
	}
	return b.String()
}

// storyURLs returns the URLs of the stories in order
func storyURLs(stories []model.Article) []string {
	urls := make([]string, 0, len(stories))
	for _, a := range stories {
		if a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]>"]+`)

// extractURLs extracts all URLs from text
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

// checkCitations extracts the URLs a note cites and, when strict, rejects
// any that are not allowed
func checkCitations(note string, allowed []string, strict bool) ([]string, error) {
	cited := extractURLs(note)
	if !strict {
		return cited, nil
	}
	for _, u := range cited {
		if !contains(allowed, u) {
			return nil, fmt.Errorf("note cites a link outside the digest: %s", u)
		}
	}
	return cited, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func newProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := strings.Split(noProxy, ",")
	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, b := range bypass {
			if b = strings.TrimPrefix(strings.TrimSpace(b), "."); b != "" && (host == b || strings.HasSuffix(host, "."+b)) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func resolveMaxTokens(req, cfg int) int {
	if req > 0 {
		return req
	}
	if cfg > 0 {
		return cfg
	}
	return 300
}

func resolveTemperature(t float32) float32 {
	if t <= 0 {
		return 0.3
	}
	return t
}
