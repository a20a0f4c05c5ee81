package aiproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"social-support/internal/assist"
	"social-support/internal/common/logger"
	"social-support/internal/common/metrics"
	"social-support/internal/locale"
	"social-support/internal/prompt"
)

const maxBodyBytes = 64 << 10

type response struct {
	Success    bool   `json:"success"`
	Suggestion string `json:"suggestion,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Handler answers POST /ai-proxy. A nil generator means the upstream
// credential is missing; every request then fails with 401 so clients
// do not retry.
type Handler struct {
	gen     Generator
	log     logger.Logger
	timeout time.Duration
}

func NewHandler(gen Generator, log logger.Logger, timeout time.Duration) *Handler {
	return &Handler{gen: gen, log: log, timeout: timeout}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.write(w, http.StatusMethodNotAllowed, response{Error: "Method not allowed"})
		return
	}
	if h.gen == nil {
		h.log.Error("ai proxy called without a configured api key", nil)
		h.write(w, http.StatusUnauthorized, response{Error: "Server configuration error"})
		return
	}

	var req assist.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.write(w, http.StatusBadRequest, response{Error: "Invalid request body"})
		return
	}
	if req.Field == "" {
		h.write(w, http.StatusBadRequest, response{Error: "Missing required field parameter"})
		return
	}
	if !req.Field.Valid() {
		h.write(w, http.StatusBadRequest, response{Error: "Unknown field " + strconv.Quote(string(req.Field))})
		return
	}

	lang := locale.Parse(string(req.Language))
	if strings.TrimSpace(string(req.Language)) == "" {
		lang = locale.Parse(r.Header.Get("Accept-Language"))
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := h.gen.Generate(ctx, prompt.Build(req.Field, lang, req.Context))
	metrics.ProxyUpstreamDuration.WithLabelValues(h.gen.Provider()).Observe(time.Since(start).Seconds())

	if err != nil {
		status := statusFor(err)
		h.log.Error("upstream generation failed", map[string]interface{}{
			"provider": h.gen.Provider(),
			"field":    string(req.Field),
			"status":   status,
			"error":    err.Error(),
		})
		h.write(w, status, response{Error: upstreamMessage(status)})
		return
	}

	h.write(w, http.StatusOK, response{Success: true, Suggestion: text})
}

func (h *Handler) write(w http.ResponseWriter, status int, body response) {
	provider := "none"
	if h.gen != nil {
		provider = h.gen.Provider()
	}
	metrics.ProxyRequests.WithLabelValues(provider, strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func upstreamMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Upstream authentication failed"
	case http.StatusTooManyRequests:
		return "Upstream rate limit exceeded"
	case http.StatusGatewayTimeout:
		return "Upstream request timed out"
	case http.StatusBadGateway:
		return "Upstream service unavailable"
	default:
		return "Failed to generate suggestion"
	}
}

// CORS allows any origin to POST, answering preflight requests with an
// empty 200.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
