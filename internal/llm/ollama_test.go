package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Note_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "llama3.1:8b" || req.Stream {
			t.Errorf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    "llama3.1:8b",
			Response: "A quiet news day.",
			Done:     true,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1:8b", StrictCitations: true})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Note(context.Background(), NoteRequest{Stories: testStories()})
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if resp.Note != "A quiet news day." {
		t.Errorf("Unexpected note: %q", resp.Note)
	}
	if resp.TokensUsed == 0 {
		t.Error("expected estimated token usage")
	}
}

func TestOllamaProvider_Note_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})
	if _, err := provider.Note(context.Background(), NoteRequest{Stories: testStories()}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_Note_NoModel(t *testing.T) {
	provider, _ := NewOllamaProvider(Config{})
	if _, err := provider.Note(context.Background(), NoteRequest{Stories: testStories()}); err == nil {
		t.Fatal("Expected error without model")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL})
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected unavailable after server shutdown")
	}
}
