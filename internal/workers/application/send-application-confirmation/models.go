package sendapplicationconfirmation

// Input carries the review process variables set at intake.
type Input struct {
	ReferenceNumber string `json:"referenceNumber"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Name            string `json:"name"`
	Language        string `json:"language"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"` // RFC 3339
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
