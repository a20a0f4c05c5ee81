package cli

import (
	"context"
	"fmt"

	"social-support/internal/assist"
	"social-support/internal/common/config"
	"social-support/internal/common/database"
	"social-support/internal/common/logger"
	"social-support/internal/locale"
	"social-support/internal/persistence"
	"social-support/internal/submission"
	"social-support/internal/wizard"
)

// Session holds the applicant's long-lived dependencies: draft storage,
// the suggestion pipeline and the submission client.
type Session struct {
	cfg       *config.Config
	log       logger.Logger
	storage   *persistence.Adapter
	suggester assist.Suggester
	submitter *submission.Client
	redis     *database.RedisClient
}

func NewSession(ctx context.Context, cfg *config.Config, log logger.Logger) (*Session, error) {
	s := &Session{cfg: cfg, log: log}

	var kv persistence.KeyValue
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		kv = persistence.NewMemoryStore()
	default:
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("draft storage unavailable: %w", err)
		}
		s.redis = rc
		kv = persistence.NewRedisStore(rc.Client)
	}
	s.storage = persistence.NewAdapter(kv, log, persistence.WithNamespace(cfg.Storage.Namespace))

	suggester, err := assist.New(cfg.AI, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.suggester = suggester
	s.submitter = submission.NewClient(cfg.Submission.BaseURL, config.GetDuration(cfg.Submission.Timeout), log)
	return s, nil
}

// Open hydrates a wizard from the saved draft.
func (s *Session) Open(ctx context.Context) (*wizard.Controller, error) {
	return wizard.Open(ctx, wizard.Deps{
		Storage:   s.storage,
		Submitter: s.submitter,
		Suggester: s.suggester,
		Logger:    s.log,
		Language:  locale.Parse(s.cfg.App.Language),
		Debounce:  config.GetDuration(s.cfg.Autosave.Debounce),
	}), nil
}

func (s *Session) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
