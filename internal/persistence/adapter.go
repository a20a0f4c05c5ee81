// Package persistence stores the applicant's draft and the last
// submission result.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
	"social-support/internal/common/metrics"
	"social-support/internal/form"
	"social-support/internal/state"
)

const (
	ApplicationKey = "social-support-application"
	ResultKey      = "social-support-application-result"
)

// Result is the record read back by the confirmation view.
type Result struct {
	ReferenceNumber       string                     `json:"referenceNumber"`
	SubmissionDate        time.Time                  `json:"submissionDate"`
	PersonalInfo          form.PersonalInfo          `json:"personalInfo"`
	FamilyFinancial       form.FamilyFinancial       `json:"familyFinancial"`
	SituationDescriptions form.SituationDescriptions `json:"situationDescriptions"`
}

// Adapter is the only reader and writer of the two storage keys.
type Adapter struct {
	kv        KeyValue
	log       logger.Logger
	namespace string
	now       func() time.Time
}

type Option func(*Adapter)

// WithNamespace prefixes both keys with "<ns>:".
func WithNamespace(ns string) Option {
	return func(a *Adapter) { a.namespace = ns }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func NewAdapter(kv KeyValue, log logger.Logger, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, log: log, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) key(name string) string {
	if a.namespace == "" {
		return name
	}
	return a.namespace + ":" + name
}

// Save stamps lastSaved and writes the snapshot. Failures are logged and
// reported through ok; they never reach the caller as errors.
func (a *Adapter) Save(ctx context.Context, s state.ApplicationState) (savedAt time.Time, ok bool) {
	savedAt = a.now().UTC()
	s.LastSaved = &savedAt
	s.IsSubmitting = false

	data, err := json.Marshal(s)
	if err != nil {
		a.fail("save", err)
		return time.Time{}, false
	}
	if err := a.kv.Set(ctx, a.key(ApplicationKey), data); err != nil {
		a.fail("save", err)
		return time.Time{}, false
	}
	metrics.AutosaveWrites.WithLabelValues("ok").Inc()
	return savedAt, true
}

// Load returns the stored snapshot merged over defaults. Absent, malformed
// or wrongly shaped data yields state.Initial().
func (a *Adapter) Load(ctx context.Context) state.ApplicationState {
	data, err := a.kv.Get(ctx, a.key(ApplicationKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.fail("load", err)
		}
		return state.Initial()
	}

	var raw struct {
		CurrentStep           *string         `json:"currentStep"`
		PersonalInfo          json.RawMessage `json:"personalInfo"`
		FamilyFinancial       json.RawMessage `json:"familyFinancial"`
		SituationDescriptions json.RawMessage `json:"situationDescriptions"`
		LastSaved             *string         `json:"lastSaved"`
		ReferenceNumber       *string         `json:"referenceNumber"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		a.log.Warn("discarding unreadable saved application", map[string]interface{}{
			"key":   a.key(ApplicationKey),
			"error": err.Error(),
		})
		return state.Initial()
	}

	s := state.Initial()
	if raw.CurrentStep != nil && form.Step(*raw.CurrentStep).Valid() {
		s.CurrentStep = form.Step(*raw.CurrentStep)
	}
	decodePart(raw.PersonalInfo, &s.PersonalInfo)
	decodePart(raw.FamilyFinancial, &s.FamilyFinancial)
	decodePart(raw.SituationDescriptions, &s.SituationDescriptions)
	if raw.LastSaved != nil {
		if t, err := time.Parse(time.RFC3339Nano, *raw.LastSaved); err == nil {
			s.LastSaved = &t
		}
	}
	if raw.ReferenceNumber != nil {
		s.ReferenceNumber = *raw.ReferenceNumber
	}
	return s
}

// SaveResult writes the confirmation record. Unlike Save it reports the
// error, since the caller decides whether the confirmation view can be
// restored later.
func (a *Adapter) SaveResult(ctx context.Context, ref string, app form.Application) error {
	rec := Result{
		ReferenceNumber:       ref,
		SubmissionDate:        a.now().UTC(),
		PersonalInfo:          app.PersonalInfo,
		FamilyFinancial:       app.FamilyFinancial,
		SituationDescriptions: app.SituationDescriptions,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		a.fail("save_result", err)
		return apperrors.NewPersistenceFailedError("save_result", err)
	}
	if err := a.kv.Set(ctx, a.key(ResultKey), data); err != nil {
		a.fail("save_result", err)
		return apperrors.NewPersistenceFailedError("save_result", err)
	}
	return nil
}

// LoadResult returns the last confirmation record, or nil.
func (a *Adapter) LoadResult(ctx context.Context) *Result {
	data, err := a.kv.Get(ctx, a.key(ResultKey))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.fail("load_result", err)
		}
		return nil
	}
	var rec Result
	if err := json.Unmarshal(data, &rec); err != nil || rec.ReferenceNumber == "" {
		return nil
	}
	return &rec
}

// Clear removes the draft. The result record is kept so the last
// confirmation stays viewable after a reset.
func (a *Adapter) Clear(ctx context.Context) {
	if err := a.kv.Del(ctx, a.key(ApplicationKey)); err != nil {
		a.fail("clear", err)
	}
}

func (a *Adapter) fail(op string, err error) {
	if op == "save" {
		metrics.AutosaveWrites.WithLabelValues("failed").Inc()
	}
	stdErr := apperrors.NewPersistenceFailedError(op, err)
	a.log.Error("persistence operation failed", map[string]interface{}{
		"operation": op,
		"errorCode": string(stdErr.Code),
		"error":     err.Error(),
	})
}

// decodePart keeps dst untouched unless raw decodes cleanly.
func decodePart[T any](raw json.RawMessage, dst *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}
