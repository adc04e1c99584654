package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/feedwise/feedwise/internal/model"
)

func TestAnthropicProvider_Note_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.System != systemPrompt || req.MaxTokens != 300 {
			t.Errorf("unexpected request %+v", req)
		}

		_, _ = w.Write([]byte(`{"id":"msg_123","type":"message","role":"assistant",
			"content":[{"type":"text","text":"Two stories today. https://example.com/2"}],
			"model":"claude-test","usage":{"input_tokens":50,"output_tokens":25}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{
		APIKey:          "test-key",
		BaseURL:         server.URL,
		Timeout:         5,
		StrictCitations: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	stories := testStories()
	resp, err := provider.Note(context.Background(), NoteRequest{
		Profile:     model.UserProfile{ID: "u1"},
		Stories:     stories,
		AllowedURLs: storyURLs(stories),
	})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if resp.Note != "Two stories today. https://example.com/2" {
		t.Errorf("Unexpected note: %q", resp.Note)
	}
	if resp.TokensUsed != 75 || resp.Model != "claude-test" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAnthropicProvider_Note_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := provider.Note(context.Background(), NoteRequest{Stories: testStories()})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "authentication_error") {
		t.Errorf("error should carry the API error type: %v", err)
	}
}

func TestAnthropicProvider_Note_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "k", BaseURL: server.URL})
	if _, err := provider.Note(context.Background(), NoteRequest{Stories: testStories()}); err == nil {
		t.Fatal("Expected error for empty content")
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hi"}]}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "k", BaseURL: server.URL})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available")
	}
}

func TestNewAnthropicProvider_MissingKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}
