package aiproxy

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"social-support/internal/common/config"
	apperrors "social-support/internal/common/errors"
	"social-support/internal/prompt"
)

// GeminiModels is the subset of genai.Models the generator calls.
type GeminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiGenerator struct {
	models      GeminiModels
	model       string
	maxTokens   int32
	temperature float32
}

func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewGeminiGeneratorWith(client.Models, cfg), nil
}

func NewGeminiGeneratorWith(m GeminiModels, cfg config.AIConfig) *GeminiGenerator {
	return &GeminiGenerator{
		models:      m,
		model:       cfg.Model,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: float32(cfg.Temperature),
	}
}

func (g *GeminiGenerator) Provider() string { return config.ProviderGemini }

func (g *GeminiGenerator) Generate(ctx context.Context, p prompt.Prompt) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(p.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
		MaxOutputTokens:   g.maxTokens,
	})
	if err != nil {
		var apiErr genai.APIError
		if stderrors.As(err, &apiErr) {
			return "", classify(apiErr.Code, err)
		}
		return "", classify(0, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.NewAIGenerationError(stderrors.New("empty completion"))
	}
	return text, nil
}
