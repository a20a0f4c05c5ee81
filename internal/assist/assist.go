// Package assist produces writing suggestions for the narrative fields,
// either from the live text generation proxy or from canned offline text.
package assist

import (
	"context"
	"fmt"
	"time"

	"social-support/internal/common/config"
	"social-support/internal/common/logger"
	"social-support/internal/form"
	"social-support/internal/locale"
	"social-support/internal/prompt"
)

// Request is one suggestion request. Its JSON form is the AI proxy
// request body.
type Request struct {
	Field    form.NarrativeField `json:"field"`
	Context  prompt.Context      `json:"context"`
	Language locale.Language     `json:"language"`
}

// Suggester returns suggestion text for a request.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (string, error)
}

// Category classifies a failed suggestion for the user-facing message.
type Category string

const (
	CategoryTimeout     Category = "timeout"
	CategoryNetwork     Category = "network"
	CategoryAuth        Category = "auth"
	CategoryRateLimit   Category = "rateLimit"
	CategoryUnavailable Category = "unavailable"
	CategoryGeneric     Category = "generic"
)

// Retryable reports whether another attempt can help.
func (c Category) Retryable() bool {
	switch c {
	case CategoryTimeout, CategoryNetwork, CategoryRateLimit, CategoryUnavailable:
		return true
	}
	return false
}

// Error is returned once the pipeline gives up. Message is localized and
// safe to show; Err keeps the cause for logs.
type Error struct {
	Category Category
	Message  string
	Attempts int
	Err      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(cat Category, lang locale.Language, attempts int, cause error) *Error {
	return &Error{
		Category: cat,
		Message:  locale.Message(lang, "ai.error."+string(cat), nil),
		Attempts: attempts,
		Err:      cause,
	}
}

// New selects the suggester for cfg.Mode.
func New(cfg config.AIConfig, log logger.Logger) (Suggester, error) {
	offline := NewOffline()
	switch cfg.Mode {
	case config.AIModeOffline:
		return offline, nil
	case config.AIModeLive, config.AIModeLiveFallback:
		if cfg.ProxyURL == "" {
			return nil, fmt.Errorf("ai.proxy_url is required in %s mode", cfg.Mode)
		}
		live := NewPipeline(
			NewProxyClient(cfg.ProxyURL, nil),
			log,
			WithMaxAttempts(cfg.MaxAttempts),
			WithBaseDelay(config.GetDuration(cfg.BaseDelay)),
			WithAttemptTimeout(config.GetDuration(cfg.Timeout)),
		)
		if cfg.Mode == config.AIModeLive {
			return live, nil
		}
		return NewFallback(live, offline, log), nil
	default:
		return nil, fmt.Errorf("unknown ai mode %q", cfg.Mode)
	}
}

const (
	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = time.Second
	DefaultAttemptTimeout = 30 * time.Second
)
