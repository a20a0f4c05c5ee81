// Package intake receives completed applications: it validates them,
// issues the reference number, stores the record and hands it to the
// caseworker search index and review workflow.
package intake

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
	"social-support/internal/common/observability"
	"social-support/internal/form"
	"social-support/internal/locale"
	"social-support/internal/models"
)

const (
	ReferencePrefix = "SSP-"

	MessageAccepted = "Application submitted successfully"
	MessageInvalid  = "Application data validation failed"
	MessageFailed   = "Server error. Please try again."
)

// NewReferenceNumber returns a sortable, unique applicant-facing reference.
func NewReferenceNumber() string {
	return ReferencePrefix + ulid.Make().String()
}

type Service struct {
	repo      Repository
	indexer   Indexer
	review    *ReviewProcess
	validator *form.Validator
	log       logger.Logger
	obs       *observability.Observability
	newRef    func() string
	now       func() time.Time
}

type Option func(*Service)

// WithIndexer enables the caseworker search index.
func WithIndexer(ix Indexer) Option { return func(s *Service) { s.indexer = ix } }

// WithReviewProcess enables starting the review workflow.
func WithReviewProcess(p *ReviewProcess) Option { return func(s *Service) { s.review = p } }

// WithObservability traces each submission and records it as an operation.
func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.validator = s.validator.WithClock(now)
	}
}

func WithReferenceGenerator(fn func() string) Option { return func(s *Service) { s.newRef = fn } }

func NewService(repo Repository, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		validator: form.NewValidator(),
		log:       log,
		newRef:    NewReferenceNumber,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit processes one application and returns the response body with
// its HTTP status. Only the database write can fail a valid submission.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest) (models.SubmitResponse, int) {
	if s.obs == nil {
		return s.submit(ctx, req)
	}

	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "intake.submit", attribute.String("language", req.Language))
	defer span.End()

	resp, status := s.submit(ctx, req)
	span.SetAttributes(attribute.Int("intake.status", status))
	if resp.ReferenceNumber != "" {
		span.SetAttributes(attribute.String("intake.reference_number", resp.ReferenceNumber))
	}
	s.obs.RecordOperation(ctx, "intake.submit", resultLabel(status), time.Since(start))
	return resp, status
}

func (s *Service) submit(ctx context.Context, req models.SubmitRequest) (models.SubmitResponse, int) {
	lang := locale.Parse(req.Language)
	app := form.Application{
		PersonalInfo:          req.PersonalInfo.Trimmed(),
		FamilyFinancial:       req.FamilyFinancial.Trimmed(),
		SituationDescriptions: req.SituationDescriptions.Trimmed(),
	}

	if errs := s.validator.Application(app, lang); !errs.Valid() {
		s.log.Info("application rejected", map[string]interface{}{
			"fields": errs.Fields(),
		})
		return models.SubmitResponse{
			Code:    http.StatusBadRequest,
			Message: MessageInvalid,
			Errors:  errs,
		}, http.StatusBadRequest
	}

	rec := &models.ApplicationRecord{
		ID:                    uuid.New().String(),
		ReferenceNumber:       s.newRef(),
		NationalID:            form.Value(app.PersonalInfo.NationalID),
		Email:                 form.Value(app.PersonalInfo.Email),
		Language:              string(lang),
		PersonalInfo:          app.PersonalInfo,
		FamilyFinancial:       app.FamilyFinancial,
		SituationDescriptions: app.SituationDescriptions,
		Status:                models.StatusSubmitted,
		SubmittedAt:           s.now().UTC(),
	}
	log := s.log.WithFields(map[string]interface{}{"referenceNumber": rec.ReferenceNumber})

	if err := s.repo.Insert(ctx, rec); err != nil {
		stdErr := apperrors.Normalize(err)
		log.Error("application insert failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return models.SubmitResponse{Code: http.StatusInternalServerError, Message: MessageFailed},
			http.StatusInternalServerError
	}

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, rec); err != nil {
			log.Warn("search indexing failed", map[string]interface{}{"error": err})
		}
	}

	if s.review != nil {
		key, err := s.review.Start(ctx, rec)
		if err != nil {
			log.Warn("review process start failed", map[string]interface{}{"error": err})
		} else {
			log.Info("review process started", map[string]interface{}{"processInstanceKey": key})
		}
	}

	log.Info("application accepted", map[string]interface{}{"language": rec.Language})
	return models.SubmitResponse{
		Code:            http.StatusOK,
		Message:         MessageAccepted,
		ReferenceNumber: rec.ReferenceNumber,
	}, http.StatusOK
}
