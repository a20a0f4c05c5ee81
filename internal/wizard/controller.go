// Package wizard sequences the application steps: it gates forward moves
// on validation, autosaves drafts and drives submission.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"social-support/internal/assist"
	"social-support/internal/common/logger"
	"social-support/internal/form"
	"social-support/internal/locale"
	"social-support/internal/persistence"
	"social-support/internal/prompt"
	"social-support/internal/state"
	"social-support/internal/submission"
)

// StepResult is the terminal confirmation view. It is stored as
// "success" in the state's current step.
const StepResult = form.StepSuccess

const DefaultDebounce = 500 * time.Millisecond

var (
	ErrInvalidTransition  = errors.New("invalid step transition")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrStaleSuggestion    = errors.New("suggestion superseded by a newer request")
	ErrUnknownField       = errors.New("unknown narrative field")
)

// ValidationError lists the failing fields of a step with localized
// messages.
type ValidationError struct {
	Step   form.Step
	Fields form.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s step is invalid: %s", e.Step, e.Fields.Error())
}

// Storage is the durable side of the wizard.
type Storage interface {
	Save(ctx context.Context, s state.ApplicationState) (time.Time, bool)
	Load(ctx context.Context) state.ApplicationState
	SaveResult(ctx context.Context, ref string, app form.Application) error
	LoadResult(ctx context.Context) *persistence.Result
	Clear(ctx context.Context)
}

// Submitter posts a complete application.
type Submitter interface {
	Submit(ctx context.Context, personal form.PersonalInfo, family form.FamilyFinancial, situation form.SituationDescriptions, language string) (*submission.Result, error)
}

type Deps struct {
	Storage   Storage
	Submitter Submitter
	Suggester assist.Suggester
	Validator *form.Validator
	Logger    logger.Logger
	Language  locale.Language
	Debounce  time.Duration
}

type Controller struct {
	store     *state.Store
	storage   Storage
	submitter Submitter
	suggester assist.Suggester
	validator *form.Validator
	tracker   *assist.Tracker
	log       logger.Logger

	mu        sync.Mutex
	lang      locale.Language
	debounce  time.Duration
	timer     *time.Timer
	pending   bool
	closed    bool
	submitErr string
	saving    sync.WaitGroup

	// writeMu serializes storage writes and clears. gen advances whenever
	// a pending autosave is cancelled; a running autosave whose gen is
	// behind does not write.
	writeMu sync.Mutex
	gen     uint64
}

// Open hydrates a controller from storage.
func Open(ctx context.Context, d Deps) *Controller {
	if d.Validator == nil {
		d.Validator = form.NewValidator()
	}
	if d.Debounce <= 0 {
		d.Debounce = DefaultDebounce
	}
	if !d.Language.Valid() {
		d.Language = locale.English
	}
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}

	c := &Controller{
		store:     state.NewStore(d.Storage.Load(ctx)),
		storage:   d.Storage,
		submitter: d.Submitter,
		suggester: d.Suggester,
		validator: d.Validator,
		tracker:   assist.NewTracker(),
		log:       d.Logger,
		lang:      d.Language,
		debounce:  d.Debounce,
	}
	c.log.Debug("wizard opened", map[string]interface{}{
		"currentStep": string(c.store.Snapshot().CurrentStep),
	})
	return c
}

func (c *Controller) State() state.ApplicationState { return c.store.Snapshot() }

func (c *Controller) CurrentStep() form.Step { return c.store.Snapshot().CurrentStep }

func (c *Controller) Language() locale.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Controller) SetLanguage(lang locale.Language) {
	if !lang.Valid() {
		return
	}
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
}

// Edit merges patch into step immediately and re-arms the autosave timer.
func (c *Controller) Edit(step form.Step, patch interface{}) error {
	if _, err := c.store.UpdateStep(step, patch); err != nil {
		return err
	}
	c.scheduleSave()
	return nil
}

// Next validates the active step and, when it passes, persists and moves
// forward. The situation step moves forward only through Submit.
func (c *Controller) Next(ctx context.Context) error {
	s := c.store.Snapshot()
	lang := c.Language()

	var next form.Step
	switch s.CurrentStep {
	case form.StepPersonal:
		if errs := c.validator.Personal(s.PersonalInfo, lang); !errs.Valid() {
			return &ValidationError{Step: form.StepPersonal, Fields: errs}
		}
		c.store.Dispatch(state.UpdatePersonalInfo{Patch: s.PersonalInfo.Trimmed()})
		next = form.StepFamily
	case form.StepFamily:
		if errs := c.validator.Family(s.FamilyFinancial, lang); !errs.Valid() {
			return &ValidationError{Step: form.StepFamily, Fields: errs}
		}
		c.store.Dispatch(state.UpdateFamilyFinancial{Patch: s.FamilyFinancial.Trimmed()})
		next = form.StepSituation
	default:
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, s.CurrentStep)
	}

	if _, err := c.store.AdvanceTo(next); err != nil {
		return err
	}
	c.saveNow(ctx)
	return nil
}

// Back moves one step backward without validation.
func (c *Controller) Back() error {
	switch c.CurrentStep() {
	case form.StepFamily:
		return c.GoTo(form.StepPersonal)
	case form.StepSituation:
		return c.GoTo(form.StepFamily)
	default:
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, c.CurrentStep())
	}
}

// GoTo jumps backward to an earlier editable step.
func (c *Controller) GoTo(step form.Step) error {
	cur := c.CurrentStep()
	if cur == StepResult || step == StepResult || !step.Valid() || step.Index() >= cur.Index() {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, cur, step)
	}
	_, err := c.store.AdvanceTo(step)
	return err
}

// Submit validates every step and posts the application. On failure the
// wizard stays on the situation step with an inline error.
func (c *Controller) Submit(ctx context.Context) (*submission.Result, error) {
	s := c.store.Snapshot()
	if s.CurrentStep != form.StepSituation {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.CurrentStep)
	}
	lang := c.Language()
	if errs := c.validator.Situation(s.SituationDescriptions, lang); !errs.Valid() {
		return nil, &ValidationError{Step: form.StepSituation, Fields: errs}
	}
	if errs := c.validator.Personal(s.PersonalInfo, lang); !errs.Valid() {
		return nil, &ValidationError{Step: form.StepPersonal, Fields: errs}
	}
	if errs := c.validator.Family(s.FamilyFinancial, lang); !errs.Valid() {
		return nil, &ValidationError{Step: form.StepFamily, Fields: errs}
	}

	if !c.store.TryBeginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	defer c.store.SetSubmitting(false)
	c.setSubmitError("")

	s = c.store.Dispatch(state.UpdateSituationDescriptions{Patch: s.SituationDescriptions.Trimmed()})
	app := s.Application()

	res, err := c.submitter.Submit(ctx, app.PersonalInfo, app.FamilyFinancial, app.SituationDescriptions, string(lang))
	if err != nil {
		c.setSubmitError(c.submitMessage(err, lang))
		c.log.Warn("submission failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if _, err := c.store.SetReferenceNumber(res.ReferenceNumber); err != nil {
		c.log.Warn("reference number not recorded", map[string]interface{}{
			"referenceNumber": res.ReferenceNumber,
			"error":           err.Error(),
		})
	}
	if err := c.storage.SaveResult(ctx, res.ReferenceNumber, app); err != nil {
		c.log.Warn("confirmation record not saved", map[string]interface{}{
			"referenceNumber": res.ReferenceNumber,
			"error":           err.Error(),
		})
	}
	if _, err := c.store.AdvanceTo(StepResult); err != nil {
		return nil, err
	}
	c.saveNow(ctx)
	return res, nil
}

// SubmitError is the inline message from the last failed submission, or
// "".
func (c *Controller) SubmitError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitErr
}

func (c *Controller) DismissError() { c.setSubmitError("") }

// Suggest asks the suggester for text for field. A response that arrives
// after a newer request for the same field is discarded.
func (c *Controller) Suggest(ctx context.Context, field form.NarrativeField) (string, error) {
	if !field.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s := c.store.Snapshot()
	req := assist.Request{
		Field:    field,
		Language: c.Language(),
		Context:  prompt.FromFamily(s.FamilyFinancial, s.SituationDescriptions.Get(field)),
	}

	id := c.tracker.Begin(field)
	text, err := c.suggester.Suggest(ctx, req)
	if !c.tracker.Current(field, id) {
		return "", ErrStaleSuggestion
	}
	c.tracker.Finish(field, id)
	return text, err
}

// AcceptSuggestion writes text into field like an edit.
func (c *Controller) AcceptSuggestion(field form.NarrativeField, text string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return c.Edit(form.StepSituation, form.With(field, text))
}

// NewApplication resets the wizard and removes the saved draft. Outside
// the result view it requires force.
func (c *Controller) NewApplication(ctx context.Context, force bool) error {
	if c.CurrentStep() != StepResult && !force {
		return fmt.Errorf("%w: new application from %s", ErrInvalidTransition, c.CurrentStep())
	}
	c.cancelPending()
	c.writeMu.Lock()
	c.store.Reset()
	c.storage.Clear(ctx)
	c.writeMu.Unlock()
	c.setSubmitError("")
	return nil
}

// Result returns the last confirmation record.
func (c *Controller) Result(ctx context.Context) *persistence.Result {
	return c.storage.LoadResult(ctx)
}

// Close flushes a pending autosave and waits for running writes.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	c.closed = true
	flush := c.pending
	c.pending = false
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()

	if flush {
		c.writeMu.Lock()
		c.persist(ctx)
		c.writeMu.Unlock()
	}
	c.saving.Wait()
}

func (c *Controller) scheduleSave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = true
	c.timer = time.AfterFunc(c.debounce, c.autosave)
}

func (c *Controller) autosave() {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = false
	gen := c.gen
	c.saving.Add(1)
	c.mu.Unlock()
	defer c.saving.Done()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		return
	}
	c.persist(context.Background())
}

// saveNow drops any pending autosave and writes immediately, after a
// write already in progress.
func (c *Controller) saveNow(ctx context.Context) {
	c.cancelPending()
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.persist(ctx)
}

func (c *Controller) cancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
}

// persist writes the snapshot current at call time.
func (c *Controller) persist(ctx context.Context) {
	if at, ok := c.storage.Save(ctx, c.store.Snapshot()); ok {
		c.store.MarkSaved(at)
	}
}

func (c *Controller) setSubmitError(msg string) {
	c.mu.Lock()
	c.submitErr = msg
	c.mu.Unlock()
}

func (c *Controller) submitMessage(err error, lang locale.Language) string {
	var subErr *submission.Error
	if errors.As(err, &subErr) && !subErr.Generic && subErr.Message != "" {
		return subErr.Message
	}
	return locale.Message(lang, "submission.error.generic", nil)
}
