package assist

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
	"social-support/internal/common/metrics"
)

// Backend performs a single generation attempt.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Pipeline retries a Backend on transient failures with exponential
// backoff and a fresh deadline per attempt.
type Pipeline struct {
	backend        Backend
	log            logger.Logger
	maxAttempts    int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

type PipelineOption func(*Pipeline)

func WithMaxAttempts(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

func WithBaseDelay(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.baseDelay = d
		}
	}
}

func WithAttemptTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.attemptTimeout = d
		}
	}
}

// WithSleep replaces the backoff wait, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PipelineOption {
	return func(p *Pipeline) { p.sleep = sleep }
}

func NewPipeline(backend Backend, log logger.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		backend:        backend,
		log:            log,
		maxAttempts:    DefaultMaxAttempts,
		baseDelay:      DefaultBaseDelay,
		attemptTimeout: DefaultAttemptTimeout,
		sleep:          sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Suggest(ctx context.Context, req Request) (string, error) {
	var (
		lastErr  error
		lastCat  Category
		attempts int
	)

	for attempts < p.maxAttempts {
		attempts++
		text, err := p.attempt(ctx, req)
		if err == nil {
			metrics.AISuggestAttempts.WithLabelValues(string(req.Field), "ok").Inc()
			metrics.AISuggestions.WithLabelValues("live", "ok").Inc()
			return text, nil
		}
		if ctx.Err() != nil {
			return "", newError(CategoryGeneric, req.Language, attempts, ctx.Err())
		}

		lastErr = err
		lastCat = categorize(err)
		metrics.AISuggestAttempts.WithLabelValues(string(req.Field), string(lastCat)).Inc()

		stdErr := apperrors.Normalize(err)
		p.log.Warn("suggestion attempt failed", map[string]interface{}{
			"field":     string(req.Field),
			"attempt":   attempts,
			"category":  string(lastCat),
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})

		if !lastCat.Retryable() || attempts == p.maxAttempts {
			break
		}

		delay := p.baseDelay << (attempts - 1)
		if err := p.sleep(ctx, delay); err != nil {
			return "", newError(CategoryGeneric, req.Language, attempts, err)
		}
	}

	metrics.AISuggestions.WithLabelValues("live", "failed").Inc()
	return "", newError(lastCat, req.Language, attempts, lastErr)
}

// attempt runs one call under its own deadline.
func (p *Pipeline) attempt(ctx context.Context, req Request) (string, error) {
	actx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
	defer cancel()

	text, err := p.backend.Generate(actx, req)
	if err == nil {
		return text, nil
	}
	if stderrors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", apperrors.NewAITimeoutError(err)
	}

	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) {
		return "", err
	}
	switch categorize(err) {
	case CategoryTimeout:
		return "", apperrors.NewAITimeoutError(err)
	case CategoryNetwork:
		return "", apperrors.NewAINetworkError(err)
	default:
		return "", apperrors.NewAIGenerationError(err)
	}
}

func categorize(err error) Category {
	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) {
		switch stdErr.Code {
		case apperrors.ErrCodeAITimeout:
			return CategoryTimeout
		case apperrors.ErrCodeAINetwork:
			return CategoryNetwork
		case apperrors.ErrCodeAIAuth:
			return CategoryAuth
		case apperrors.ErrCodeAIRateLimited:
			return CategoryRateLimit
		case apperrors.ErrCodeAIUnavailable:
			return CategoryUnavailable
		default:
			return CategoryGeneric
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return CategoryTimeout
		}
		return CategoryNetwork
	}
	return CategoryGeneric
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
