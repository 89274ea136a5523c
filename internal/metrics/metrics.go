package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Hook request metrics
	hookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_hook_requests_total",
			Help: "Total number of auth email hook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	hookProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_hook_processing_duration_seconds",
			Help:    "End-to-end hook processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"outcome"},
	)

	// Email sending metrics
	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_email_sent_total",
			Help: "Total number of auth emails accepted by the provider",
		},
		[]string{"action", "provider"},
	)

	emailsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_email_failed_total",
			Help: "Total number of failed auth email sends",
		},
		[]string{"action", "provider", "error_type"},
	)

	emailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_email_send_duration_seconds",
			Help:    "Provider call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// Idempotency metrics
	idempotencyHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_hook_idempotency_hits_total",
			Help: "Total number of deliveries skipped because the webhook id was already sent",
		},
	)
)

// RecordHookRequest records one finished hook delivery.
func RecordHookRequest(outcome string, duration time.Duration) {
	hookRequestsTotal.WithLabelValues(outcome).Inc()
	hookProcessingDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordEmailSent records a provider-accepted email
func RecordEmailSent(action, provider string) {
	emailsSentTotal.WithLabelValues(action, provider).Inc()
}

// RecordEmailFailed records a rejected or undelivered email
func RecordEmailFailed(action, provider, errorType string) {
	emailsFailedTotal.WithLabelValues(action, provider, errorType).Inc()
}

// ObserveSend records how long the provider call took, whatever its result.
func ObserveSend(provider string, duration time.Duration) {
	emailSendDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func RecordIdempotencyHit() {
	idempotencyHitsTotal.Inc()
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
