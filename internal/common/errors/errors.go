// Package errors provides the structured error type shared by the intake
// service, the AI proxy and the confirmation worker.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeMalformedRequest  ErrorCode = "MALFORMED_REQUEST"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"

	ErrCodeAITimeout       ErrorCode = "AI_TIMEOUT"
	ErrCodeAINetwork       ErrorCode = "AI_NETWORK_ERROR"
	ErrCodeAIAuth          ErrorCode = "AI_AUTH_FAILED"
	ErrCodeAIRateLimited   ErrorCode = "AI_RATE_LIMITED"
	ErrCodeAIUnavailable   ErrorCode = "AI_UNAVAILABLE"
	ErrCodeAIGenerationErr ErrorCode = "AI_GENERATION_FAILED"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeIndexFailed          ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeProcessStartFailed   ErrorCode = "PROCESS_START_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError is an error thrown back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the process variables attached to a failed job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Application data validation failed", details, false)
}

func NewMalformedRequestError(err error) *StandardError {
	return newError(ErrCodeMalformedRequest, "Request body could not be decoded", err.Error(), false)
}

func NewPersistenceFailedError(op string, err error) *StandardError {
	return newError(ErrCodePersistenceFailed, "Local persistence write failed",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), false)
}

func NewAITimeoutError(err error) *StandardError {
	return newError(ErrCodeAITimeout, "Text generation timed out", err.Error(), true)
}

func NewAINetworkError(err error) *StandardError {
	return newError(ErrCodeAINetwork, "Text generation backend unreachable", err.Error(), true)
}

func NewAIAuthError(details string) *StandardError {
	return newError(ErrCodeAIAuth, "Text generation credentials rejected", details, false)
}

func NewAIRateLimitedError(details string) *StandardError {
	return newError(ErrCodeAIRateLimited, "Text generation rate limit exceeded", details, true)
}

func NewAIUnavailableError(status int, details string) *StandardError {
	return newError(ErrCodeAIUnavailable, "Text generation service unavailable",
		fmt.Sprintf("status: %d, %s", status, details), true)
}

func NewAIGenerationError(err error) *StandardError {
	return newError(ErrCodeAIGenerationErr, "Text generation failed", err.Error(), false)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewDuplicateApplicationError(referenceNumber string) *StandardError {
	return newError(ErrCodeDuplicateApplication, "Application already exists",
		fmt.Sprintf("referenceNumber: %s", referenceNumber), false)
}

func NewIndexFailedError(err error) *StandardError {
	return newError(ErrCodeIndexFailed, "Search index write failed", err.Error(), true)
}

func NewProcessStartFailedError(err error) *StandardError {
	return newError(ErrCodeProcessStartFailed, "Review process could not be started", err.Error(), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns how many times the workflow engine should retry a
// job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeIndexFailed,
		ErrCodeProcessStartFailed:
		return 3
	case ErrCodeAITimeout,
		ErrCodeAINetwork,
		ErrCodeAIRateLimited,
		ErrCodeAIUnavailable:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory groups codes for log aggregation.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AI_"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "PROCESS"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "PERSISTENCE"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "MALFORMED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
