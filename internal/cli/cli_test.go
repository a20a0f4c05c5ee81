package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-support/internal/assist"
	"social-support/internal/common/logger"
	"social-support/internal/form"
	"social-support/internal/locale"
	"social-support/internal/models"
	"social-support/internal/persistence"
	"social-support/internal/submission"
	"social-support/internal/wizard"
)

type harness struct {
	open    Opener
	adapter *persistence.Adapter
	bodies  []models.SubmitRequest
}

func newHarness(t *testing.T, status int, resp models.SubmitResponse) *harness {
	t.Helper()
	h := &harness{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.SubmitRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		h.bodies = append(h.bodies, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	log := logger.NewTestLogger(t)
	h.adapter = persistence.NewAdapter(persistence.NewMemoryStore(), log)
	sub := submission.NewClient(srv.URL, 5*time.Second, log)
	h.open = func(ctx context.Context) (*wizard.Controller, error) {
		return wizard.Open(ctx, wizard.Deps{
			Storage:   h.adapter,
			Submitter: sub,
			Suggester: assist.NewOffline(),
			Logger:    log,
			Language:  locale.English,
			Debounce:  time.Hour,
		}), nil
	}
	return h
}

func (h *harness) exec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot(h.open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (h *harness) fill(t *testing.T) {
	t.Helper()
	steps := [][]string{
		{"edit", "personal", "name=Jane Doe", "nationalId=123456", "dateOfBirth=1990-01-01", "gender=female",
			"address=1 Main St", "city=Springfield", "state=IL", "country=USA", "phone=+15551234567", "email=jane@example.com"},
		{"next"},
		{"edit", "family", "maritalStatus=single", "dependents=2", "employmentStatus=unemployed", "monthlyIncome=500", "housingStatus=rent"},
		{"next"},
		{"suggest", "financialSituation", "--accept"},
		{"suggest", "employmentCircumstances", "--accept"},
		{"suggest", "reasonForApplying", "--accept"},
	}
	for _, args := range steps {
		_, err := h.exec(t, args...)
		require.NoError(t, err, strings.Join(args, " "))
	}
}

func TestApplicant_FullFlow(t *testing.T) {
	h := newHarness(t, http.StatusOK, models.SubmitResponse{Code: 200, Message: "Application submitted successfully", ReferenceNumber: "SSP-42"})
	h.fill(t)

	out, err := h.exec(t, "submit")
	require.NoError(t, err)
	assert.Contains(t, out, "Reference number: SSP-42")

	require.Len(t, h.bodies, 1)
	assert.Equal(t, "Jane Doe", form.Value(h.bodies[0].PersonalInfo.Name))
	assert.Equal(t, form.Numeric("500"), form.Value(h.bodies[0].FamilyFinancial.MonthlyIncome))
	assert.Equal(t, "en", h.bodies[0].Language)

	out, err = h.exec(t, "result")
	require.NoError(t, err)
	assert.Contains(t, out, `"referenceNumber": "SSP-42"`)

	out, err = h.exec(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step: success")

	_, err = h.exec(t, "new")
	require.NoError(t, err)
	out, err = h.exec(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step: personal")
}

func TestApplicant_NextReportsFieldErrors(t *testing.T) {
	h := newHarness(t, http.StatusOK, models.SubmitResponse{})

	_, err := h.exec(t, "edit", "personal", "email=jane@example")
	require.NoError(t, err)

	out, err := h.exec(t, "next")
	require.Error(t, err)
	assert.Contains(t, out, "The personal step has errors:")
	assert.Contains(t, out, "email: Please enter a valid email address")

	out, err = h.exec(t, "--lang", "ar", "next")
	require.Error(t, err)
	assert.NotContains(t, out, "Please enter a valid email address")
}

func TestApplicant_SubmitFailureKeepsDraft(t *testing.T) {
	h := newHarness(t, http.StatusInternalServerError, models.SubmitResponse{Code: 500, Message: "Server error. Please try again."})
	h.fill(t)

	out, err := h.exec(t, "submit")
	require.Error(t, err)
	assert.Contains(t, out, "Server error. Please try again.")

	out, err = h.exec(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Step: situation")
	assert.Contains(t, out, "Jane Doe")
}

func TestApplicant_Navigation(t *testing.T) {
	h := newHarness(t, http.StatusOK, models.SubmitResponse{})
	h.fill(t)

	out, err := h.exec(t, "back")
	require.NoError(t, err)
	assert.Contains(t, out, "Now on the family step")

	_, err = h.exec(t, "goto", "personal")
	require.NoError(t, err)

	_, err = h.exec(t, "goto", "situation")
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	_, err = h.exec(t, "new")
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition, "an unsubmitted draft needs --force")
	_, err = h.exec(t, "new", "--force")
	assert.NoError(t, err)
}

func TestParsePatch(t *testing.T) {
	p, err := parsePatch(form.StepFamily, []string{"dependents=3", "monthlyIncome=1200.50"})
	require.NoError(t, err)
	family := p.(form.FamilyFinancial)
	assert.Equal(t, form.Numeric("3"), form.Value(family.Dependents))
	assert.Equal(t, form.Numeric("1200.50"), form.Value(family.MonthlyIncome))

	_, err = parsePatch(form.StepPersonal, []string{"nickname=JD"})
	assert.Error(t, err)

	_, err = parsePatch(form.StepPersonal, []string{"name"})
	assert.Error(t, err)

	_, err = parsePatch(form.StepSuccess, []string{"name=x"})
	assert.Error(t, err)
}
