package aiproxy

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"social-support/internal/common/config"
	apperrors "social-support/internal/common/errors"
	"social-support/internal/prompt"
)

// AnthropicMessager is the subset of the Messages service the generator
// calls.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicGenerator struct {
	messages    AnthropicMessager
	model       string
	maxTokens   int64
	temperature float64
}

// NewAnthropicGenerator disables SDK retries; the applicant's pipeline
// owns the retry policy.
func NewAnthropicGenerator(cfg config.AIConfig) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Millisecond))
	}
	client := anthropic.NewClient(opts...)
	return NewAnthropicGeneratorWith(&client.Messages, cfg)
}

func NewAnthropicGeneratorWith(m AnthropicMessager, cfg config.AIConfig) *AnthropicGenerator {
	return &AnthropicGenerator{
		messages:    m,
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (g *AnthropicGenerator) Provider() string { return config.ProviderAnthropic }

func (g *AnthropicGenerator) Generate(ctx context.Context, p prompt.Prompt) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		System:      []anthropic.TextBlockParam{{Text: p.System}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(p.User))},
		Temperature: anthropic.Float(g.temperature),
	})
	if err != nil {
		var apiErr *anthropic.Error
		if stderrors.As(err, &apiErr) {
			return "", classify(apiErr.StatusCode, err)
		}
		return "", classify(0, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", apperrors.NewAIGenerationError(stderrors.New("empty completion"))
	}
	return text, nil
}
