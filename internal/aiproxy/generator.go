// Package aiproxy serves POST /ai-proxy: it builds the prompt for a
// narrative field and forwards it to the configured text generation
// provider, keeping the provider credential on the server.
package aiproxy

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"social-support/internal/common/config"
	apperrors "social-support/internal/common/errors"
	"social-support/internal/prompt"
)

// Generator produces text for a prompt from one upstream provider.
type Generator interface {
	Generate(ctx context.Context, p prompt.Prompt) (string, error)
	Provider() string
}

// NewGenerator builds the generator for cfg.Provider. An empty API key is
// reported as an AI_AUTH_FAILED error so the handler can answer 401.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewAIAuthError("api key not configured")
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(cfg), nil
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// classify maps an upstream failure to a StandardError by HTTP status.
func classify(status int, err error) *apperrors.StandardError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewAIAuthError(err.Error())
	case status == http.StatusTooManyRequests:
		return apperrors.NewAIRateLimitedError(err.Error())
	case status >= 500:
		return apperrors.NewAIUnavailableError(status, err.Error())
	case status != 0:
		return apperrors.NewAIGenerationError(err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewAITimeoutError(err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewAITimeoutError(err)
		}
		return apperrors.NewAINetworkError(err)
	}
	return apperrors.NewAIGenerationError(err)
}

// statusFor is the proxy's HTTP status for a generation failure.
func statusFor(err error) int {
	stdErr := apperrors.Normalize(err)
	switch stdErr.Code {
	case apperrors.ErrCodeAIAuth:
		return http.StatusUnauthorized
	case apperrors.ErrCodeAIRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeAIUnavailable, apperrors.ErrCodeAINetwork:
		return http.StatusBadGateway
	case apperrors.ErrCodeAITimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
