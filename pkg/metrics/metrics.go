package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Gemini call latency in milliseconds.
	GeminiCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gemini_call_latency_ms",
			Help:    "Gemini API call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"operation", "status"},
	)

	// Database query latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	// Replanning pass counter by trigger.
	ReplanCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replan_count",
			Help: "Total number of replanning passes",
		},
		[]string{"trigger"}, // trigger: insert_task, update_task, chat
	)

	// Draft generation counter.
	DraftGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draft_generation_count",
			Help: "Total number of project drafts generated",
		},
		[]string{"status"}, // status: success, failed
	)
)

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordGeminiCallLatency records a Gemini API call.
func RecordGeminiCallLatency(operation, status string, duration time.Duration) {
	GeminiCallLatency.WithLabelValues(operation, status).Observe(float64(duration.Milliseconds()))
}

// RecordDBQueryDuration records database query latency.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementReplan counts a replanning pass.
func IncrementReplan(trigger string) {
	ReplanCount.WithLabelValues(trigger).Inc()
}

// IncrementDraftGeneration counts a draft generation attempt.
func IncrementDraftGeneration(status string) {
	DraftGenerationCount.WithLabelValues(status).Inc()
}
