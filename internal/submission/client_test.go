package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support/internal/common/logger"
	"social-support/internal/form"
	"social-support/internal/models"
)

func payloads() (form.PersonalInfo, form.FamilyFinancial, form.SituationDescriptions) {
	return form.PersonalInfo{Name: form.Ptr("Jane Doe")},
		form.FamilyFinancial{MonthlyIncome: form.Ptr(form.Numeric("500")), Dependents: form.Ptr(form.Numeric("0"))},
		form.SituationDescriptions{ReasonForApplying: form.Ptr(strings.Repeat("Z", 60))}
}

func server(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SubmitPath, r.URL.Path)

		var req map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "personalInfo")
		assert.Contains(t, req, "familyFinancial")
		assert.Contains(t, req, "situationDescriptions")
		assert.JSONEq(t, `{"monthlyIncome":500,"dependents":0}`, string(req["familyFinancial"]))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmit_Success(t *testing.T) {
	srv := server(t, http.StatusOK, `{"code":200,"message":"Application submitted successfully","referenceNumber":"REF-1"}`)
	c := NewClient(srv.URL+"/", time.Second, logger.NewTestLogger(t))

	p, f, s := payloads()
	res, err := c.Submit(context.Background(), p, f, s, "en")

	require.NoError(t, err)
	assert.Equal(t, "REF-1", res.ReferenceNumber)
	assert.Equal(t, "Application submitted successfully", res.Message)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		generic bool
	}{
		{"server message", http.StatusInternalServerError, `{"code":500,"message":"Server error"}`, "Server error", false},
		{"code without reference", http.StatusOK, `{"code":200,"message":"Queued"}`, "Queued", false},
		{"non-json body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericMessage, true},
		{"success code mismatch", http.StatusOK, `{"code":201,"referenceNumber":"REF-2"}`, GenericMessage, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := server(t, tt.status, tt.body)
			c := NewClient(srv.URL, time.Second, logger.NewNoOpLogger())

			p, f, s := payloads()
			_, err := c.Submit(context.Background(), p, f, s, "")

			var subErr *Error
			require.ErrorAs(t, err, &subErr)
			assert.Equal(t, tt.message, subErr.Message)
			assert.Equal(t, tt.generic, subErr.Generic)
			assert.Equal(t, tt.status, subErr.Status)
		})
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, logger.NewNoOpLogger())
	p, f, s := payloads()
	_, err := c.Submit(context.Background(), p, f, s, "en")

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.False(t, subErr.Generic)
	assert.Contains(t, subErr.Message, "connect")
}

func TestSubmitRequest_Shape(t *testing.T) {
	p, f, s := payloads()
	out, err := json.Marshal(models.SubmitRequest{
		Application: form.Application{PersonalInfo: p, FamilyFinancial: f, SituationDescriptions: s},
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Len(t, doc, 3)
}
