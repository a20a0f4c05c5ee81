package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support/internal/common/config"
	"social-support/internal/common/logger"
	"social-support/internal/form"
	"social-support/internal/locale"
	"social-support/internal/prompt"
)

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testRequest(lang locale.Language) Request {
	return Request{
		Field:    form.FieldFinancialSituation,
		Language: lang,
		Context:  prompt.Context{EmploymentStatus: "unemployed"},
	}
}

// proxyStub answers with the given statuses in order, then succeeds.
func proxyStub(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, form.FieldFinancialSituation, req.Field)

		w.Header().Set("Content-Type", "application/json")
		if n <= len(statuses) {
			w.WriteHeader(statuses[n-1])
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "upstream said no"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "suggestion": "  I need help.  "})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestPipeline(t *testing.T, url string, rec *recordedSleep, opts ...PipelineOption) *Pipeline {
	opts = append([]PipelineOption{WithBaseDelay(100 * time.Millisecond), WithSleep(rec.sleep)}, opts...)
	return NewPipeline(NewProxyClient(url, nil), logger.NewTestLogger(t), opts...)
}

func TestPipeline_RetriesServerErrorsWithBackoff(t *testing.T) {
	srv, calls := proxyStub(t, http.StatusInternalServerError, http.StatusInternalServerError)
	rec := &recordedSleep{}

	text, err := newTestPipeline(t, srv.URL, rec).Suggest(context.Background(), testRequest(locale.English))

	require.NoError(t, err)
	assert.Equal(t, "I need help.", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, rec.delays)
}

func TestPipeline_AuthFailsFast(t *testing.T) {
	srv, calls := proxyStub(t, http.StatusUnauthorized)
	rec := &recordedSleep{}

	_, err := newTestPipeline(t, srv.URL, rec).Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryAuth, aerr.Category)
	assert.Equal(t, "AI service is misconfigured. Please contact support.", aerr.Message)
	assert.Equal(t, 1, aerr.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, rec.delays)
}

func TestPipeline_ClientErrorFailsFast(t *testing.T) {
	srv, calls := proxyStub(t, http.StatusBadRequest)

	_, err := newTestPipeline(t, srv.URL, &recordedSleep{}).Suggest(context.Background(), testRequest(locale.Arabic))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryGeneric, aerr.Category)
	assert.Equal(t, "تعذر إنشاء المساعدة. يرجى المحاولة مرة أخرى.", aerr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestPipeline_RateLimitExhaustsAttempts(t *testing.T) {
	srv, calls := proxyStub(t, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests)
	rec := &recordedSleep{}

	_, err := newTestPipeline(t, srv.URL, rec).Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryRateLimit, aerr.Category)
	assert.Equal(t, "API rate limit exceeded. Please try again later.", aerr.Message)
	assert.Equal(t, 3, aerr.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Len(t, rec.delays, 2)
}

func TestPipeline_UpstreamTimeoutStatus(t *testing.T) {
	srv, _ := proxyStub(t, http.StatusGatewayTimeout, http.StatusGatewayTimeout, http.StatusGatewayTimeout)

	_, err := newTestPipeline(t, srv.URL, &recordedSleep{}).Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryTimeout, aerr.Category)
	assert.Equal(t, "Request timed out. Please try again.", aerr.Message)
}

type blockingBackend struct{ calls int32 }

func (b *blockingBackend) Generate(ctx context.Context, _ Request) (string, error) {
	atomic.AddInt32(&b.calls, 1)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPipeline_PerAttemptTimeout(t *testing.T) {
	backend := &blockingBackend{}
	rec := &recordedSleep{}
	p := NewPipeline(backend, logger.NewNoOpLogger(),
		WithAttemptTimeout(10*time.Millisecond), WithSleep(rec.sleep))

	_, err := p.Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryTimeout, aerr.Category)
	assert.Equal(t, int32(3), atomic.LoadInt32(&backend.calls))
}

func TestPipeline_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestPipeline(t, url, &recordedSleep{}).Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryNetwork, aerr.Category)
	assert.Equal(t, 3, aerr.Attempts)
}

func TestPipeline_CallerCancellation(t *testing.T) {
	backend := &blockingBackend{}
	p := NewPipeline(backend, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Suggest(ctx, testRequest(locale.English))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.calls))
}

func TestPipeline_SuccessWithoutSuggestionIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"suggestion":"   "}`))
	}))
	defer srv.Close()

	_, err := newTestPipeline(t, srv.URL, &recordedSleep{}).Suggest(context.Background(), testRequest(locale.English))

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CategoryGeneric, aerr.Category)
	assert.Equal(t, 1, aerr.Attempts)
}

func TestOffline(t *testing.T) {
	o := NewOffline()
	for _, lang := range []locale.Language{locale.English, locale.Arabic} {
		for _, field := range form.NarrativeFields {
			text, err := o.Suggest(context.Background(), Request{Field: field, Language: lang})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len([]rune(text)), 50, "%s/%s", lang, field)
		}
	}

	_, err := o.Suggest(context.Background(), Request{Field: "hobbies", Language: locale.English})
	assert.Error(t, err)
}

func TestFallback_ServesOfflineText(t *testing.T) {
	srv, calls := proxyStub(t, http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	live := newTestPipeline(t, srv.URL, &recordedSleep{})
	f := NewFallback(live, NewOffline(), logger.NewTestLogger(t))

	text, err := f.Suggest(context.Background(), testRequest(locale.Arabic))

	require.NoError(t, err)
	assert.Equal(t, canned[locale.Arabic][form.FieldFinancialSituation], text)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestNew_SelectsByMode(t *testing.T) {
	log := logger.NewNoOpLogger()

	s, err := New(config.AIConfig{Mode: config.AIModeOffline}, log)
	require.NoError(t, err)
	assert.IsType(t, &Offline{}, s)

	s, err = New(config.AIConfig{Mode: config.AIModeLive, ProxyURL: "http://localhost/ai-proxy", MaxAttempts: 3}, log)
	require.NoError(t, err)
	assert.IsType(t, &Pipeline{}, s)

	s, err = New(config.AIConfig{Mode: config.AIModeLiveFallback, ProxyURL: "http://localhost/ai-proxy"}, log)
	require.NoError(t, err)
	assert.IsType(t, &Fallback{}, s)

	_, err = New(config.AIConfig{Mode: config.AIModeLive}, log)
	assert.Error(t, err)
}

func TestTracker(t *testing.T) {
	tr := NewTracker()

	first := tr.Begin(form.FieldReasonForApplying)
	second := tr.Begin(form.FieldReasonForApplying)
	other := tr.Begin(form.FieldFinancialSituation)

	assert.False(t, tr.Current(form.FieldReasonForApplying, first))
	assert.True(t, tr.Current(form.FieldReasonForApplying, second))
	assert.True(t, tr.Current(form.FieldFinancialSituation, other))

	tr.Finish(form.FieldReasonForApplying, first)
	assert.True(t, tr.Current(form.FieldReasonForApplying, second))
}
