package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sopworks/sopdb/internal/config"
	"google.golang.org/genai"
)

// suggestTimeout bounds every generation call. The old UI used a blind
// 15-second timer to clear its spinner; here the request itself is
// cancelled.
const suggestTimeout = 15 * time.Second

// SuggestionService generates instruction text and step suggestions from
// the Gemini API.
type SuggestionService struct {
	client *genai.Client
	model  string
}

// NewSuggestionService creates the service, or returns (nil, nil) when no
// API key is configured so callers can disable the feature.
func NewSuggestionService(ctx context.Context, cfg *config.Config) (*SuggestionService, error) {
	if cfg.GenAIKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GenAIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &SuggestionService{client: client, model: cfg.GenAIModel}, nil
}

// Suggest returns generated text for one of the suggestion kinds:
// "instructions" (rewrite/expand instruction text), "steps" (propose step
// titles for a procedure) or "media" (suggest what to photograph).
func (s *SuggestionService) Suggest(ctx context.Context, kind, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	var preamble string
	switch kind {
	case "steps":
		preamble = "List the numbered steps for the following standard operating procedure. One short imperative sentence per step.\n\n"
	case "media":
		preamble = "Suggest which photos or short videos would best illustrate the following procedure step. Answer as a short list.\n\n"
	default:
		preamble = "Rewrite the following as clear, concise work instructions for a standard operating procedure step.\n\n"
	}

	contents := []*genai.Content{
		genai.NewContentFromText(preamble+prompt, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate suggestion: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty suggestion response")
	}
	return text, nil
}
