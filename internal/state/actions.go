package state

import (
	"time"

	"social-support/internal/form"
)

// Action is one state transition. The set is closed; Reduce switches on
// the concrete type.
type Action interface {
	isAction()
}

type UpdatePersonalInfo struct{ Patch form.PersonalInfo }

type UpdateFamilyFinancial struct{ Patch form.FamilyFinancial }

type UpdateSituationDescriptions struct{ Patch form.SituationDescriptions }

type SetCurrentStep struct{ Step form.Step }

type SetSubmitting struct{ Submitting bool }

type SetReferenceNumber struct{ Reference string }

// LoadState replaces the whole state, used when hydrating from storage.
type LoadState struct{ State ApplicationState }

type Reset struct{}

type MarkSaved struct{ At time.Time }

func (UpdatePersonalInfo) isAction()          {}
func (UpdateFamilyFinancial) isAction()       {}
func (UpdateSituationDescriptions) isAction() {}
func (SetCurrentStep) isAction()              {}
func (SetSubmitting) isAction()               {}
func (SetReferenceNumber) isAction()          {}
func (LoadState) isAction()                   {}
func (Reset) isAction()                       {}
func (MarkSaved) isAction()                   {}

// Reduce returns the state that results from applying a to s. It has no
// side effects.
func Reduce(s ApplicationState, a Action) ApplicationState {
	switch a := a.(type) {
	case UpdatePersonalInfo:
		s.PersonalInfo = s.PersonalInfo.Merge(a.Patch)
	case UpdateFamilyFinancial:
		s.FamilyFinancial = s.FamilyFinancial.Merge(a.Patch)
	case UpdateSituationDescriptions:
		s.SituationDescriptions = s.SituationDescriptions.Merge(a.Patch)
	case SetCurrentStep:
		s.CurrentStep = a.Step
	case SetSubmitting:
		s.IsSubmitting = a.Submitting
	case SetReferenceNumber:
		s.ReferenceNumber = a.Reference
	case LoadState:
		s = a.State
	case Reset:
		s = Initial()
	case MarkSaved:
		at := a.At
		s.LastSaved = &at
	}
	return s
}
