package intake

import (
	"encoding/json"
	"net/http"
	"time"

	"social-support/internal/common/metrics"
	"social-support/internal/models"
)

const maxBodyBytes = 256 << 10

// Handler serves POST /application/submit.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.SubmitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.svc.log.Info("malformed submission", map[string]interface{}{"error": err})
		write(w, start, http.StatusBadRequest, models.SubmitResponse{
			Code:    http.StatusBadRequest,
			Message: MessageInvalid,
		})
		return
	}

	resp, status := h.svc.Submit(r.Context(), req)
	write(w, start, status, resp)
}

func write(w http.ResponseWriter, start time.Time, status int, body models.SubmitResponse) {
	result := resultLabel(status)
	metrics.IntakeApplications.WithLabelValues(result).Inc()
	metrics.IntakeDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func resultLabel(status int) string {
	switch {
	case status == http.StatusOK:
		return "accepted"
	case status < 500:
		return "rejected"
	default:
		return "failed"
	}
}
