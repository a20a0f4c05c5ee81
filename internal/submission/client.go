// Package submission posts a completed application to the intake
// endpoint.
package submission

import (
	"context"
	"strings"
	"time"

	commonhttp "social-support/internal/common/http"
	"social-support/internal/common/logger"
	"social-support/internal/common/metrics"
	"social-support/internal/form"
	"social-support/internal/models"
)

const (
	SubmitPath     = "/application/submit"
	GenericMessage = "Failed to submit application. Please try again."
)

type Result struct {
	ReferenceNumber string
	Message         string
}

// Error is a failed submission. Message is the most specific text
// available; Generic marks the fallback so callers can localize it.
type Error struct {
	Message string
	Status  int
	Generic bool
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Client submits applications. It never retries.
type Client struct {
	url  string
	http *commonhttp.Client
	log  logger.Logger
}

// NewClient targets baseURL + "/application/submit". A zero timeout
// keeps the transport default.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return NewClientWith(baseURL, commonhttp.NewClient(timeout), log)
}

func NewClientWith(baseURL string, hc *commonhttp.Client, log logger.Logger) *Client {
	return &Client{
		url:  strings.TrimRight(baseURL, "/") + SubmitPath,
		http: hc,
		log:  log,
	}
}

// Submit posts the three step payloads. Language is sent along for the
// confirmation message and may be empty.
func (c *Client) Submit(ctx context.Context, personal form.PersonalInfo, family form.FamilyFinancial, situation form.SituationDescriptions, language string) (*Result, error) {
	req := models.SubmitRequest{
		Application: form.Application{
			PersonalInfo:          personal,
			FamilyFinancial:       family,
			SituationDescriptions: situation,
		},
		Language: language,
	}

	resp, err := c.http.PostJSON(ctx, c.url, req)
	if err != nil {
		c.log.Error("submission request failed", map[string]interface{}{
			"url":   c.url,
			"error": err.Error(),
		})
		metrics.SubmissionsSent.WithLabelValues("transport_error").Inc()
		return nil, &Error{Message: err.Error(), Err: err}
	}

	var body models.SubmitResponse
	decodeErr := resp.Decode(&body)

	if decodeErr == nil && body.Code == 200 && body.ReferenceNumber != "" {
		metrics.SubmissionsSent.WithLabelValues("ok").Inc()
		c.log.Info("application submitted", map[string]interface{}{
			"referenceNumber": body.ReferenceNumber,
		})
		return &Result{ReferenceNumber: body.ReferenceNumber, Message: body.Message}, nil
	}

	metrics.SubmissionsSent.WithLabelValues("rejected").Inc()
	c.log.Warn("submission rejected", map[string]interface{}{
		"status":  resp.StatusCode,
		"code":    body.Code,
		"message": body.Message,
	})

	subErr := &Error{Status: resp.StatusCode, Err: decodeErr}
	switch {
	case strings.TrimSpace(body.Message) != "":
		subErr.Message = body.Message
	default:
		subErr.Message = GenericMessage
		subErr.Generic = true
	}
	return nil, subErr
}
