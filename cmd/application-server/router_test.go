package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRouter(readyErr error) http.Handler {
	ok := func(name string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Handler", name)
			w.WriteHeader(http.StatusOK)
		})
	}
	return newRouter(routes{
		submit:  ok("submit"),
		aiProxy: ok("ai-proxy"),
		ready:   func(context.Context) error { return readyErr },
	})
}

func TestRouter(t *testing.T) {
	r := testRouter(nil)

	tests := []struct {
		name    string
		method  string
		path    string
		status  int
		handler string
	}{
		{"submit", http.MethodPost, "/application/submit", http.StatusOK, "submit"},
		{"submit wrong method", http.MethodGet, "/application/submit", http.StatusMethodNotAllowed, ""},
		{"ai proxy", http.MethodPost, "/ai-proxy", http.StatusOK, "ai-proxy"},
		{"ai proxy preflight", http.MethodOptions, "/ai-proxy", http.StatusOK, ""},
		{"health", http.MethodGet, "/health", http.StatusOK, ""},
		{"ready", http.MethodGet, "/ready", http.StatusOK, ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, ""},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}")))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.handler, rec.Header().Get("X-Handler"))
		})
	}
}

func TestRouter_AIProxyCORS(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/ai-proxy", nil))

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestRouter_NotReady(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(errors.New("connection refused")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)
}
