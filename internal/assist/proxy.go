package assist

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apperrors "social-support/internal/common/errors"
	commonhttp "social-support/internal/common/http"
)

// ProxyClient makes exactly one call to the AI proxy endpoint. Retries
// belong to Pipeline.
type ProxyClient struct {
	url    string
	client *commonhttp.Client
}

// NewProxyClient posts to url. A nil client gets one without a transport
// timeout; the pipeline's per-attempt deadline bounds each call.
func NewProxyClient(url string, client *commonhttp.Client) *ProxyClient {
	if client == nil {
		client = commonhttp.NewClient(0)
	}
	return &ProxyClient{url: url, client: client}
}

type proxyResponse struct {
	Success    bool   `json:"success"`
	Suggestion string `json:"suggestion"`
	Error      string `json:"error"`
}

// Generate returns the suggestion or a *errors.StandardError whose code
// identifies the failure class.
func (p *ProxyClient) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.PostJSON(ctx, p.url, req)
	if err != nil {
		return "", err
	}

	var body proxyResponse
	_ = resp.Decode(&body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperrors.NewAIAuthError(body.Error)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", apperrors.NewAIRateLimitedError(body.Error)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return "", apperrors.NewAITimeoutError(fmt.Errorf("proxy status %d: %s", resp.StatusCode, body.Error))
	case resp.StatusCode >= 500:
		return "", apperrors.NewAIUnavailableError(resp.StatusCode, body.Error)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", apperrors.NewAIGenerationError(fmt.Errorf("proxy status %d: %s", resp.StatusCode, body.Error))
	}

	suggestion := strings.TrimSpace(body.Suggestion)
	if !body.Success || suggestion == "" {
		msg := body.Error
		if msg == "" {
			msg = "empty suggestion"
		}
		return "", apperrors.NewAIGenerationError(fmt.Errorf("proxy: %s", msg))
	}
	return suggestion, nil
}
