package intake

import (
	"context"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/form"
	"social-support/internal/models"
)

// ProcessStarter creates workflow instances. *camunda.Client implements it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// ReviewVariables are the process variables of the review workflow. The
// confirmation worker reads them as its job input.
type ReviewVariables struct {
	ReferenceNumber string `json:"referenceNumber"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Name            string `json:"name"`
	Language        string `json:"language"`
}

// ReviewProcess starts the caseworker review workflow for a submission.
type ReviewProcess struct {
	starter   ProcessStarter
	processID string
}

func NewReviewProcess(starter ProcessStarter, processID string) *ReviewProcess {
	return &ReviewProcess{starter: starter, processID: processID}
}

func (p *ReviewProcess) Start(ctx context.Context, rec *models.ApplicationRecord) (int64, error) {
	vars := ReviewVariables{
		ReferenceNumber: rec.ReferenceNumber,
		Email:           rec.Email,
		Phone:           form.Value(rec.PersonalInfo.Phone),
		Name:            form.Value(rec.PersonalInfo.Name),
		Language:        rec.Language,
	}
	key, err := p.starter.StartProcess(ctx, p.processID, vars)
	if err != nil {
		return 0, apperrors.NewProcessStartFailedError(err)
	}
	return key, nil
}

