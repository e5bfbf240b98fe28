package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"method", "path", "status"},
	)

	// status: processed, skipped, failed
	EmailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_processed_total",
			Help: "Emails submitted to the processing pipeline",
		},
		[]string{"status"},
	)

	// outcome: succeeded, degraded
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_total",
			Help: "Email classifications by outcome",
		},
		[]string{"outcome"},
	)

	ResponsesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "responses_sent_total",
			Help: "Reply delivery attempts",
		},
		[]string{"status"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_call_duration_seconds",
			Help:    "Language model call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"operation", "status"},
	)

	EmailsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_ingested_total",
			Help: "Mailbox messages seen by ingestion runs",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordEmailProcessed(status string) {
	EmailsProcessed.WithLabelValues(status).Inc()
}

func RecordClassification(degraded bool) {
	outcome := "succeeded"
	if degraded {
		outcome = "degraded"
	}
	Classifications.WithLabelValues(outcome).Inc()
}

func RecordResponseSent(status string) {
	ResponsesSent.WithLabelValues(status).Inc()
}

func RecordAICall(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AICallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// result: new, duplicate, error
func RecordIngested(result string) {
	EmailsIngested.WithLabelValues(result).Inc()
}
