package models

import (
	"time"

	"social-support/internal/form"
)

// Application statuses stored with a record.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
)

// SubmitRequest is the body of POST /application/submit. Language is
// optional and only drives the confirmation message.
type SubmitRequest struct {
	form.Application
	Language string `json:"language,omitempty"`
}

// SubmitResponse is returned by POST /application/submit. Code mirrors
// the HTTP status; 200 with a reference number is the only success shape.
type SubmitResponse struct {
	Code            int               `json:"code"`
	Message         string            `json:"message,omitempty"`
	ReferenceNumber string            `json:"referenceNumber,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// ApplicationRecord is a submitted application as persisted and indexed.
type ApplicationRecord struct {
	ID                    string                     `json:"id"`
	ReferenceNumber       string                     `json:"referenceNumber"`
	NationalID            string                     `json:"nationalId"`
	Email                 string                     `json:"email"`
	Language              string                     `json:"language"`
	PersonalInfo          form.PersonalInfo          `json:"personalInfo"`
	FamilyFinancial       form.FamilyFinancial       `json:"familyFinancial"`
	SituationDescriptions form.SituationDescriptions `json:"situationDescriptions"`
	Status                string                     `json:"status"`
	SubmittedAt           time.Time                  `json:"submittedAt"`
}
