// Package metrics holds the Prometheus instrumentation for the payment
// session flow. Collectors register themselves on the default registry; the
// demo server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_sessions_started_total",
		Help: "The total number of payment sessions started",
	})
	SessionsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_sessions_completed_total",
		Help: "The total number of completed payment sessions by terminal status",
	}, []string{"status"})
	PresentationRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_presentation_retries_total",
		Help: "Times a session backed off because the presentation surface was busy",
	})
	SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_session_duration_seconds",
		Help:    "Time from request creation to session completion",
		Buckets: prometheus.LinearBuckets(0.5, 0.5, 12),
	})
)
