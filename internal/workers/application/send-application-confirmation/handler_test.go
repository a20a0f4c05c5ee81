package sendapplicationconfirmation

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support/internal/common/config"
	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
)

type MockSESService struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *MockSESService) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

type MockSNSService struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *MockSNSService) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

var sentAt = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func createTestHandler(t *testing.T, cfg *Config, sesSvc SESService, snsSvc SNSService) *Handler {
	h := NewHandler(cfg, sesSvc, snsSvc, logger.NewTestLogger(t))
	h.now = func() time.Time { return sentAt }
	return h
}

func createTestInput(lang string) *Input {
	return &Input{
		ReferenceNumber: "SSP-01J0000000000000000000000",
		Email:           "jane@example.com",
		Phone:           "+15551234567",
		Name:            "Jane Doe",
		Language:        lang,
	}
}

func enabledConfig() *Config {
	return &Config{EmailEnabled: true, SMSEnabled: true, FromEmail: "no-reply@support.gov"}
}

func TestHandler_Execute_SendsBothChannels(t *testing.T) {
	sesSvc, snsSvc := &MockSESService{}, &MockSNSService{}
	h := createTestHandler(t, enabledConfig(), sesSvc, snsSvc)

	out, err := h.Execute(context.Background(), createTestInput("en"))

	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, "2026-03-15T10:00:00Z", out.SentAt)
	assert.NotEmpty(t, out.NotificationID)

	require.Len(t, sesSvc.inputs, 1)
	email := sesSvc.inputs[0]
	assert.Equal(t, []string{"jane@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "no-reply@support.gov", aws.ToString(email.Source))
	assert.Equal(t, "Your social support application SSP-01J0000000000000000000000", aws.ToString(email.Message.Subject.Data))
	assert.Contains(t, aws.ToString(email.Message.Body.Text.Data), "Dear Jane Doe")

	require.Len(t, snsSvc.inputs, 1)
	assert.Equal(t, "+15551234567", aws.ToString(snsSvc.inputs[0].PhoneNumber))
	assert.Contains(t, aws.ToString(snsSvc.inputs[0].Message), "SSP-01J0000000000000000000000")
}

func TestHandler_Execute_Arabic(t *testing.T) {
	sesSvc := &MockSESService{}
	h := createTestHandler(t, &Config{EmailEnabled: true, FromEmail: "no-reply@support.gov"}, sesSvc, &MockSNSService{})

	_, err := h.Execute(context.Background(), createTestInput("ar"))

	require.NoError(t, err)
	require.Len(t, sesSvc.inputs, 1)
	assert.Contains(t, aws.ToString(sesSvc.inputs[0].Message.Body.Text.Data), "رقمك المرجعي")
}

func TestHandler_Execute_Disabled(t *testing.T) {
	sesSvc, snsSvc := &MockSESService{}, &MockSNSService{}
	h := createTestHandler(t, &Config{}, sesSvc, snsSvc)

	out, err := h.Execute(context.Background(), createTestInput("en"))

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, sesSvc.inputs)
	assert.Empty(t, snsSvc.inputs)
}

func TestHandler_Execute_NoPhoneSkipsSMS(t *testing.T) {
	snsSvc := &MockSNSService{}
	h := createTestHandler(t, &Config{SMSEnabled: true}, &MockSESService{}, snsSvc)
	input := createTestInput("en")
	input.Phone = ""

	out, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, snsSvc.inputs)
}

func TestHandler_Execute_ChannelFailures(t *testing.T) {
	t.Run("email", func(t *testing.T) {
		snsSvc := &MockSNSService{}
		h := createTestHandler(t, enabledConfig(), &MockSESService{err: assert.AnError}, snsSvc)

		out, err := h.Execute(context.Background(), createTestInput("en"))

		require.NoError(t, err)
		assert.Equal(t, StatusFailed, out.Status)
		assert.Empty(t, snsSvc.inputs)
	})

	t.Run("sms", func(t *testing.T) {
		h := createTestHandler(t, enabledConfig(), &MockSESService{}, &MockSNSService{err: assert.AnError})

		out, err := h.Execute(context.Background(), createTestInput("en"))

		require.NoError(t, err)
		assert.Equal(t, StatusFailed, out.Status)
	})
}

func TestHandler_Execute_MissingReference(t *testing.T) {
	h := createTestHandler(t, enabledConfig(), &MockSESService{}, &MockSNSService{})
	input := createTestInput("en")
	input.ReferenceNumber = "  "

	_, err := h.Execute(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.Normalize(err).Code)
}

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 5000},
	}}
	cfg.Notifications.Email.Enabled = true
	cfg.Notifications.Email.FromEmail = "no-reply@support.gov"

	wc := LoadConfig(cfg)

	assert.True(t, wc.EmailEnabled)
	assert.False(t, wc.SMSEnabled)
	assert.Equal(t, "no-reply@support.gov", wc.FromEmail)
	assert.Equal(t, 5*time.Second, wc.Timeout)
}
