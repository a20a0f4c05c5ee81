package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "social-support/internal/common/errors"
	"social-support/internal/common/logger"
	"social-support/internal/common/observability"
	"social-support/internal/form"
	"social-support/internal/models"
)

var submittedAt = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func validRequest() models.SubmitRequest {
	return models.SubmitRequest{
		Application: form.Application{
			PersonalInfo: form.PersonalInfo{
				Name:        form.Ptr(" Jane Doe "),
				NationalID:  form.Ptr("123456"),
				DateOfBirth: form.Ptr("1990-01-01"),
				Gender:      form.Ptr("female"),
				Address:     form.Ptr("1 Main St"),
				City:        form.Ptr("Springfield"),
				State:       form.Ptr("IL"),
				Country:     form.Ptr("USA"),
				Phone:       form.Ptr("+15551234567"),
				Email:       form.Ptr("jane@example.com"),
			},
			FamilyFinancial: form.FamilyFinancial{
				MaritalStatus:    form.Ptr("single"),
				Dependents:       form.Ptr(form.Numeric("2")),
				EmploymentStatus: form.Ptr("unemployed"),
				MonthlyIncome:    form.Ptr(form.Numeric("500")),
				HousingStatus:    form.Ptr("rent"),
			},
			SituationDescriptions: form.SituationDescriptions{
				FinancialSituation:      form.Ptr(strings.Repeat("a", 60)),
				EmploymentCircumstances: form.Ptr(strings.Repeat("b", 60)),
				ReasonForApplying:       form.Ptr(strings.Repeat("c", 60)),
			},
		},
		Language: "ar",
	}
}

type fakeIndexer struct {
	err  error
	recs []*models.ApplicationRecord
}

func (f *fakeIndexer) Index(_ context.Context, rec *models.ApplicationRecord) error {
	f.recs = append(f.recs, rec)
	return f.err
}

type fakeStarter struct {
	err       error
	processID string
	vars      interface{}
}

func (f *fakeStarter) StartProcess(_ context.Context, processID string, vars interface{}) (int64, error) {
	f.processID = processID
	f.vars = vars
	return 2251799813685249, f.err
}

func newTestService(t *testing.T, opts ...Option) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	opts = append([]Option{
		WithClock(func() time.Time { return submittedAt }),
		WithReferenceGenerator(func() string { return "SSP-TEST" }),
	}, opts...)
	return NewService(NewPostgresRepository(db, logger.NewTestLogger(t)), logger.NewTestLogger(t), opts...), mock
}

func expectInsert(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`INSERT INTO social_support_applications`).
		WithArgs(
			sqlmock.AnyArg(), // id
			"SSP-TEST",
			"123456",
			"jane@example.com",
			"ar",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			models.StatusSubmitted,
			submittedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("application_submitted", "social_support_application", sqlmock.AnyArg(), sqlmock.AnyArg(), submittedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestService_Submit_Success(t *testing.T) {
	ix := &fakeIndexer{}
	starter := &fakeStarter{}
	svc, mock := newTestService(t, WithIndexer(ix), WithReviewProcess(NewReviewProcess(starter, "social-support-review")))
	expectInsert(mock)

	resp, status := svc.Submit(context.Background(), validRequest())

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.SubmitResponse{Code: 200, Message: MessageAccepted, ReferenceNumber: "SSP-TEST"}, resp)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, ix.recs, 1)
	assert.Equal(t, "Jane Doe", *ix.recs[0].PersonalInfo.Name, "stored values are trimmed")

	assert.Equal(t, "social-support-review", starter.processID)
	assert.Equal(t, ReviewVariables{
		ReferenceNumber: "SSP-TEST",
		Email:           "jane@example.com",
		Phone:           "+15551234567",
		Name:            "Jane Doe",
		Language:        "ar",
	}, starter.vars)
}

func TestService_Submit_ValidationFailure(t *testing.T) {
	svc, mock := newTestService(t)
	req := validRequest()
	req.PersonalInfo.Email = form.Ptr("jane@example")
	req.FamilyFinancial.MonthlyIncome = form.Ptr(form.Numeric("0"))
	req.Language = "en"

	resp, status := svc.Submit(context.Background(), req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, MessageInvalid, resp.Message)
	assert.Empty(t, resp.ReferenceNumber)
	assert.Contains(t, resp.Errors, "personalInfo.email")
	assert.Contains(t, resp.Errors, "familyFinancial.monthlyIncome")
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing is stored")
}

func TestService_Submit_DatabaseFailure(t *testing.T) {
	ix := &fakeIndexer{}
	svc, mock := newTestService(t, WithIndexer(ix))
	mock.ExpectExec(`INSERT INTO social_support_applications`).WillReturnError(assert.AnError)

	resp, status := svc.Submit(context.Background(), validRequest())

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, models.SubmitResponse{Code: 500, Message: MessageFailed}, resp)
	assert.Empty(t, ix.recs)
}

func TestService_Submit_SideEffectFailuresAreNotFatal(t *testing.T) {
	ix := &fakeIndexer{err: apperrors.NewIndexFailedError(assert.AnError)}
	starter := &fakeStarter{err: assert.AnError}
	svc, mock := newTestService(t, WithIndexer(ix), WithReviewProcess(NewReviewProcess(starter, "p")))
	expectInsert(mock)

	resp, status := svc.Submit(context.Background(), validRequest())

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SSP-TEST", resp.ReferenceNumber)
}

func TestPostgresRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db, logger.NewTestLogger(t))
	rec := &models.ApplicationRecord{ID: "id-1", ReferenceNumber: "SSP-1", Status: models.StatusSubmitted, SubmittedAt: submittedAt}

	t.Run("duplicate reference", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO social_support_applications`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Insert(context.Background(), rec)
		assert.Equal(t, apperrors.ErrCodeDuplicateApplication, apperrors.Normalize(err).Code)
	})

	t.Run("insert failure is retryable", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO social_support_applications`).WillReturnError(assert.AnError)

		err := repo.Insert(context.Background(), rec)
		stdErr := apperrors.Normalize(err)
		assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("audit failure is tolerated", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO social_support_applications`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(assert.AnError)

		assert.NoError(t, repo.Insert(context.Background(), rec))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewReferenceNumber(t *testing.T) {
	a, b := NewReferenceNumber(), NewReferenceNumber()
	assert.True(t, strings.HasPrefix(a, ReferencePrefix))
	assert.Len(t, a, len(ReferencePrefix)+26)
	assert.NotEqual(t, a, b)
}

// esStub records index requests and answers like an Elasticsearch node.
func esStub(t *testing.T, status int) (*elasticsearch.Client, *[]*http.Request, *[][]byte) {
	t.Helper()
	var reqs []*http.Request
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, r)
		bodies = append(bodies, body)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created","_id":"SSP-1"}`))
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs, &bodies
}

func TestElasticIndexer_Index(t *testing.T) {
	es, reqs, bodies := esStub(t, http.StatusCreated)
	ix := NewElasticIndexer(es, "social-support-applications")
	rec := &models.ApplicationRecord{ReferenceNumber: "SSP-1", Email: "jane@example.com", Status: models.StatusSubmitted}

	require.NoError(t, ix.Index(context.Background(), rec))

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/social-support-applications/_doc/SSP-1", (*reqs)[0].URL.Path)

	var doc models.ApplicationRecord
	require.NoError(t, json.NewDecoder(bytes.NewReader((*bodies)[0])).Decode(&doc))
	assert.Equal(t, "jane@example.com", doc.Email)
}

func TestElasticIndexer_ErrorStatus(t *testing.T) {
	es, _, _ := esStub(t, http.StatusInternalServerError)
	ix := NewElasticIndexer(es, "social-support-applications")

	err := ix.Index(context.Background(), &models.ApplicationRecord{ReferenceNumber: "SSP-1"})
	assert.Equal(t, apperrors.ErrCodeIndexFailed, apperrors.Normalize(err).Code)
}

func TestService_Submit_Traced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	svc, mock := newTestService(t, WithObservability(&observability.Observability{}))
	expectInsert(mock)

	resp, status := svc.Submit(context.Background(), validRequest())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SSP-TEST", resp.ReferenceNumber)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "intake.submit", spans[0].Name())
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "ar", attrs["language"])
	assert.Equal(t, "200", attrs["intake.status"])
	assert.Equal(t, "SSP-TEST", attrs["intake.reference_number"])
}
