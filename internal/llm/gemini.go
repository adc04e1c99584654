package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider implements the Provider interface for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// modelName falls back to the configured model, then to the default when
// the configured one belongs to another provider.
func (p *GeminiProvider) modelName(name string) string {
	if name == "" {
		name = p.config.Model
	}
	if name == "" || !strings.HasPrefix(name, "gemini") {
		name = defaultGeminiModel
	}
	return name
}

// IsAvailable fetches model metadata as a credentials check
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.GenerativeModel(p.modelName("")).Info(ctx)
	return err == nil
}

// Note generates an editor's note with GenerateContent
func (p *GeminiProvider) Note(ctx context.Context, req NoteRequest) (*NoteResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Profile, req.Stories)
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := p.modelName(req.Model)
	model := p.client.GenerativeModel(name)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	model.SetMaxOutputTokens(int32(resolveMaxTokens(req.MaxTokens, p.config.MaxTokens)))
	model.SetTemperature(resolveTemperature(p.config.Temperature))

	resp, err := model.GenerateContent(ctxWithTimeout, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	note := geminiText(resp)
	if note == "" {
		return nil, fmt.Errorf("no response from Gemini")
	}
	cited, err := checkCitations(note, req.AllowedURLs, p.config.StrictCitations)
	if err != nil {
		return nil, err
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &NoteResponse{
		Note:       note,
		CitedURLs:  cited,
		Model:      name,
		TokensUsed: tokens,
	}, nil
}

// geminiText joins the text parts of the first candidate
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}
