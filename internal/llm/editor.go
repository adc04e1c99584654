package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feedwise/feedwise/internal/model"
)

// Editor writes editor's notes through an optional provider
type Editor struct {
	provider Provider
	config   Config
	logger   *slog.Logger
}

// NewEditor creates an editor. A disabled configuration yields an editor
// whose Note always returns "".
func NewEditor(config Config, logger *slog.Logger) (*Editor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Editor{provider: provider, config: config, logger: logger}, nil
}

// NewEditorWithProvider wraps an existing provider
func NewEditorWithProvider(provider Provider, config Config, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{provider: provider, config: config, logger: logger}
}

// IsEnabled reports whether a provider is configured
func (e *Editor) IsEnabled() bool {
	return e != nil && e.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (e *Editor) ProviderName() string {
	if !e.IsEnabled() {
		return ""
	}
	return e.provider.Name()
}

// Note writes a note for the bundle's top stories. It returns "" without
// error when disabled or when there is nothing to introduce.
func (e *Editor) Note(ctx context.Context, profile model.UserProfile, stories []model.Article) (string, error) {
	if !e.IsEnabled() || len(stories) == 0 {
		return "", nil
	}

	resp, err := e.provider.Note(ctx, NoteRequest{
		Profile:     profile,
		Stories:     stories,
		AllowedURLs: storyURLs(stories),
		Model:       e.config.Model,
		MaxTokens:   e.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s note: %w", e.provider.Name(), err)
	}

	e.logger.Debug("editor note generated",
		"provider", e.provider.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
		"citations", len(resp.CitedURLs),
	)
	return resp.Note, nil
}
