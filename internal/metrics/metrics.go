// Package metrics exposes Prometheus collectors for the workflow and its HTTP surface.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "project_connect"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	workflowOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "operations_total",
			Help:      "Workflow operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	cascadeDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "cascade_deleted_applications_total",
			Help:      "Applications removed because a member joined a team.",
		},
	)

	expiredApplications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "expired_applications_total",
			Help:      "Applications discarded by the retention sweep.",
		},
	)

	notificationsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "dispatched_total",
			Help:      "Notification intents handed to the publisher.",
		},
		[]string{"result"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_runs_total",
			Help:      "Background job runs.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of background job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		workflowOperations,
		cascadeDeletes,
		expiredApplications,
		notificationsDispatched,
		jobRuns,
		jobDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation counts a workflow operation by the category of its error.
func RecordOperation(operation string, err error) {
	workflowOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// RecordCascade counts applications deleted by a team-forming cascade.
func RecordCascade(n int) {
	if n > 0 {
		cascadeDeletes.Add(float64(n))
	}
}

// RecordExpired counts applications discarded by retention.
func RecordExpired(n int) {
	if n > 0 {
		expiredApplications.Add(float64(n))
	}
}

// RecordDispatch counts notification intents by publish result.
func RecordDispatch(success bool, n int) {
	if n <= 0 {
		return
	}
	result := "ok"
	if !success {
		result = "error"
	}
	notificationsDispatched.WithLabelValues(result).Add(float64(n))
}

// RecordJob records a background job run.
func RecordJob(job string, duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// Outcome maps an error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entities.ErrNotFound):
		return "not_found"
	case errors.Is(err, entities.ErrForbidden):
		return "forbidden"
	case errors.Is(err, entities.ErrConflict):
		return "conflict"
	case errors.Is(err, entities.ErrInvalid):
		return "invalid"
	default:
		return "internal"
	}
}
