package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"social-support/internal/form"
)

var (
	ErrReferenceAlreadySet = errors.New("reference number already set")
	ErrUnknownStep         = errors.New("unknown step")
)

// Store serializes every dispatch through one mutex so autosave timers
// and user actions observe a single ordered history.
type Store struct {
	mu    sync.Mutex
	state ApplicationState
}

func NewStore(initial ApplicationState) *Store {
	return &Store{state: initial}
}

// Dispatch applies a and returns the resulting snapshot.
func (s *Store) Dispatch(a Action) ApplicationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

func (s *Store) Snapshot() ApplicationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdateStep merges patch into the payload of step. patch must be the
// payload type of that step.
func (s *Store) UpdateStep(step form.Step, patch interface{}) (ApplicationState, error) {
	var a Action
	switch p := patch.(type) {
	case form.PersonalInfo:
		a = UpdatePersonalInfo{Patch: p}
	case form.FamilyFinancial:
		a = UpdateFamilyFinancial{Patch: p}
	case form.SituationDescriptions:
		a = UpdateSituationDescriptions{Patch: p}
	default:
		return s.Snapshot(), fmt.Errorf("%w: no payload %T", ErrUnknownStep, patch)
	}
	if want := stepOf(a); want != step {
		return s.Snapshot(), fmt.Errorf("%w: %T does not belong to %q", ErrUnknownStep, patch, step)
	}
	return s.Dispatch(a), nil
}

// AdvanceTo moves the step pointer without any validity gate.
func (s *Store) AdvanceTo(step form.Step) (ApplicationState, error) {
	if !step.Valid() {
		return s.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return s.Dispatch(SetCurrentStep{Step: step}), nil
}

func (s *Store) SetSubmitting(v bool) ApplicationState {
	return s.Dispatch(SetSubmitting{Submitting: v})
}

// TryBeginSubmit sets isSubmitting and reports true, or reports false if
// a submission is already in flight.
func (s *Store) TryBeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsSubmitting {
		return false
	}
	s.state = Reduce(s.state, SetSubmitting{Submitting: true})
	return true
}

// SetReferenceNumber records ref once per cycle.
func (s *Store) SetReferenceNumber(ref string) (ApplicationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ReferenceNumber != "" && s.state.ReferenceNumber != ref {
		return s.state, ErrReferenceAlreadySet
	}
	s.state = Reduce(s.state, SetReferenceNumber{Reference: ref})
	return s.state, nil
}

func (s *Store) Reset() ApplicationState {
	return s.Dispatch(Reset{})
}

func (s *Store) Load(st ApplicationState) ApplicationState {
	return s.Dispatch(LoadState{State: st})
}

func (s *Store) MarkSaved(at time.Time) ApplicationState {
	return s.Dispatch(MarkSaved{At: at})
}

func stepOf(a Action) form.Step {
	switch a.(type) {
	case UpdatePersonalInfo:
		return form.StepPersonal
	case UpdateFamilyFinancial:
		return form.StepFamily
	case UpdateSituationDescriptions:
		return form.StepSituation
	}
	return ""
}
