package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Applicant side.

	AutosaveWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_autosave_writes_total",
			Help: "Draft persistence writes by outcome",
		},
		[]string{"outcome"},
	)

	AISuggestAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_suggest_attempts_total",
			Help: "Suggestion attempts sent to the AI proxy by field and outcome category",
		},
		[]string{"field", "category"},
	)

	AISuggestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_suggestions_total",
			Help: "Completed suggestion requests by source (live, offline) and result",
		},
		[]string{"source", "result"},
	)

	SubmissionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_submissions_sent_total",
			Help: "Submission calls made by the applicant client by result",
		},
		[]string{"result"},
	)

	// Server side.

	IntakeApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_applications_total",
			Help: "Applications received by the intake endpoint by result",
		},
		[]string{"result"},
	)

	IntakeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_request_duration_seconds",
			Help: "Duration of intake request handling in seconds",
		},
		[]string{"result"},
	)

	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_proxy_requests_total",
			Help: "AI proxy requests by provider and HTTP status",
		},
		[]string{"provider", "status"},
	)

	ProxyUpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_proxy_upstream_duration_seconds",
			Help:    "Upstream text generation latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)

	// Worker side.

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
