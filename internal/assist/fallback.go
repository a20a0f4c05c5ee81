package assist

import (
	"context"
	stderrors "errors"

	"social-support/internal/common/logger"
)

// Fallback tries the live suggester and serves offline text when it
// fails, so the applicant is never blocked on a narrative field.
type Fallback struct {
	live    Suggester
	offline Suggester
	log     logger.Logger
}

func NewFallback(live, offline Suggester, log logger.Logger) *Fallback {
	return &Fallback{live: live, offline: offline, log: log}
}

func (f *Fallback) Suggest(ctx context.Context, req Request) (string, error) {
	text, err := f.live.Suggest(ctx, req)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	fields := map[string]interface{}{
		"field": string(req.Field),
		"error": err.Error(),
	}
	var aerr *Error
	if stderrors.As(err, &aerr) {
		fields["category"] = string(aerr.Category)
		fields["attempts"] = aerr.Attempts
	}
	f.log.Warn("live suggestion failed, serving offline text", fields)

	return f.offline.Suggest(ctx, req)
}
