package database

import (
	"context"
	"fmt"
	"time"

	"social-support/internal/common/logger"
)

// Retry runs op until it succeeds, doubling the delay after each failure.
// It gives up after maxRetries attempts or when ctx is done.
func Retry(ctx context.Context, log logger.Logger, name string, maxRetries int, initialDelay time.Duration, op func() error) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, maxRetries, err)
}
