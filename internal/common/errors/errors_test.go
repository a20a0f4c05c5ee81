package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewNotificationSendFailedError("email", stderrors.New("throttled")))

		assert.Equal(t, string(ErrCodeNotificationSendFailed), bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "channel: email, error: throttled", bpmn.Details)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, string(ErrCodeNotificationSendFailed), vars["errorCode"])
		assert.Equal(t, string(ErrCodeNotificationSendFailed), vars["originalErrorCode"])
		assert.NotEmpty(t, vars["timestamp"])
	})

	t.Run("not retryable", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewValidationFailedError("referenceNumber is required"))

		assert.False(t, bpmn.Retryable)
		assert.Zero(t, bpmn.Retries)
	})

	t.Run("retryable flag wins over code", func(t *testing.T) {
		err := NewIndexFailedError(stderrors.New("mapping conflict"))
		err.Retryable = false

		assert.Zero(t, ConvertToBPMNError(err).Retries)
	})
}

func TestNormalize(t *testing.T) {
	dup := NewDuplicateApplicationError("SSP-1")
	assert.Same(t, dup, Normalize(fmt.Errorf("insert: %w", dup)))

	plain := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrorCode("INTERNAL_ERROR"), plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeAITimeout:              "AI",
		ErrCodeDatabaseInsertFailed:   "DATABASE",
		ErrCodeDuplicateApplication:   "DATABASE",
		ErrCodeIndexFailed:            "SEARCH",
		ErrCodeProcessStartFailed:     "WORKFLOW",
		ErrCodeNotificationSendFailed: "NOTIFICATION",
		ErrCodePersistenceFailed:      "PERSISTENCE",
		ErrCodeMalformedRequest:       "VALIDATION",
		"INTERNAL_ERROR":              "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
}
