// Package state holds the in-memory application aggregate and the pure
// reducer that mutates it.
package state

import (
	"time"

	"social-support/internal/form"
)

// ApplicationState is the wizard's single mutable aggregate.
type ApplicationState struct {
	CurrentStep           form.Step                  `json:"currentStep"`
	PersonalInfo          form.PersonalInfo          `json:"personalInfo"`
	FamilyFinancial       form.FamilyFinancial       `json:"familyFinancial"`
	SituationDescriptions form.SituationDescriptions `json:"situationDescriptions"`
	IsSubmitting          bool                       `json:"isSubmitting"`
	LastSaved             *time.Time                 `json:"lastSaved"`
	ReferenceNumber       string                     `json:"referenceNumber,omitempty"`
}

// Initial returns the state of a fresh application.
func Initial() ApplicationState {
	return ApplicationState{CurrentStep: form.StepPersonal}
}

// Application assembles the three step payloads.
func (s ApplicationState) Application() form.Application {
	return form.Application{
		PersonalInfo:          s.PersonalInfo,
		FamilyFinancial:       s.FamilyFinancial,
		SituationDescriptions: s.SituationDescriptions,
	}
}
