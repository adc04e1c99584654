package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/feedwise/feedwise/internal/model"
)

type mockProvider struct {
	name     string
	response *NoteResponse
	err      error
	calls    int
	lastReq  NoteRequest
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Note(ctx context.Context, req NoteRequest) (*NoteResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return m.err == nil }

func TestNewEditor_Disabled(t *testing.T) {
	editor, err := NewEditor(Config{}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if editor.IsEnabled() || editor.ProviderName() != "" {
		t.Error("Expected disabled editor")
	}

	note, err := editor.Note(context.Background(), model.UserProfile{}, testStories())
	if note != "" || err != nil {
		t.Errorf("disabled Note() = %q, %v", note, err)
	}
}

func TestNewEditor_UnknownProvider(t *testing.T) {
	if _, err := NewEditor(Config{Provider: "bard"}, nil); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestEditor_Note(t *testing.T) {
	provider := &mockProvider{name: "mock", response: &NoteResponse{Note: "Hello.", Model: "m"}}
	editor := NewEditorWithProvider(provider, Config{Model: "m", MaxTokens: 50}, nil)

	note, err := editor.Note(context.Background(), model.UserProfile{ID: "u"}, testStories())
	if err != nil {
		t.Fatal(err)
	}
	if note != "Hello." {
		t.Errorf("Note() = %q", note)
	}
	if got := provider.lastReq.AllowedURLs; len(got) != 2 || got[0] != "https://example.com/1" {
		t.Errorf("AllowedURLs = %v", got)
	}
	if provider.lastReq.MaxTokens != 50 {
		t.Errorf("MaxTokens = %d", provider.lastReq.MaxTokens)
	}
}

func TestEditor_Note_NoStories(t *testing.T) {
	provider := &mockProvider{name: "mock", response: &NoteResponse{Note: "x"}}
	editor := NewEditorWithProvider(provider, Config{}, nil)

	note, err := editor.Note(context.Background(), model.UserProfile{}, nil)
	if note != "" || err != nil || provider.calls != 0 {
		t.Errorf("expected no provider call, got note=%q err=%v calls=%d", note, err, provider.calls)
	}
}

func TestEditor_Note_ProviderError(t *testing.T) {
	provider := &mockProvider{name: "mock", err: errors.New("boom")}
	editor := NewEditorWithProvider(provider, Config{}, nil)

	_, err := editor.Note(context.Background(), model.UserProfile{}, testStories())
	if err == nil || !strings.Contains(err.Error(), "mock note") {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(model.UserProfile{ID: "u1", DisplayName: "Alex Parker", Interests: []string{"AI", "startups"}}, testStories())

	for _, want := range []string{"Alex Parker", "AI, startups", "1. AI startup raises funding (Wire)", "URL: https://example.com/2", "Summary: A startup raised money."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if p := BuildPrompt(model.UserProfile{ID: "u1"}, nil); !strings.Contains(p, "u1") {
		t.Error("prompt should fall back to the profile id")
	}
}

func TestExtractURLs(t *testing.T) {
	got := extractURLs("See https://a.example/x. And (https://b.example/y) or https://a.example/x!")
	if len(got) != 2 || got[0] != "https://a.example/x" || got[1] != "https://b.example/y" {
		t.Errorf("extractURLs() = %v", got)
	}
}

func TestCheckCitations(t *testing.T) {
	allowed := []string{"https://a.example/x"}
	if _, err := checkCitations("read https://b.example", allowed, true); err == nil {
		t.Error("strict mode should reject unknown links")
	}
	if cited, err := checkCitations("read https://b.example", allowed, false); err != nil || len(cited) != 1 {
		t.Errorf("lenient mode = %v, %v", cited, err)
	}
}

func TestConfigFromModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := ConfigFromModel(model.LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}, model.FeedsConfig{HTTPProxy: "http://proxy:3128"})
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env fallback", cfg.APIKey)
	}
	if !cfg.StrictCitations || cfg.HTTPProxy != "http://proxy:3128" {
		t.Errorf("unexpected config %+v", cfg)
	}

	cfg = ConfigFromModel(model.LLMConfig{Provider: "openai", APIKey: "explicit"}, model.FeedsConfig{})
	if cfg.APIKey != "explicit" {
		t.Errorf("explicit key overridden: %q", cfg.APIKey)
	}
}
