package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	classroomCacheTotal   *prometheus.CounterVec
	submissionTransitions *prometheus.CounterVec
	eventsPublishedTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonbase_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moonbase_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonbase_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		classroomCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonbase_classroom_cache_requests_total",
			Help: "Classroom directory cache lookups by result.",
		}, []string{"result"})

		submissionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonbase_submission_transitions_total",
			Help: "Submission status changes by actor role and target status.",
		}, []string{"role", "status"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonbase_events_published_total",
			Help: "Submission events handed to the message broker.",
		}, []string{"type", "result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			classroomCacheTotal,
			submissionTransitions,
			eventsPublishedTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ClassroomCache exposes the classroom cache hit/miss counter.
func ClassroomCache() *prometheus.CounterVec {
	RegisterMetrics()
	return classroomCacheTotal
}

// SubmissionTransitions exposes the submission status change counter.
func SubmissionTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionTransitions
}

// EventsPublished exposes the broker publish counter.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
