package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	intakeSubmissions   *prometheus.CounterVec
	fraudGateDecisions  *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		intakeSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Intake submissions by record kind and outcome.",
		}, []string{"kind", "outcome"})

		fraudGateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_gate_decisions_total",
			Help: "Fraud gate decisions by action tag and reason.",
		}, []string{"action", "reason"})

		statusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "record_status_transitions_total",
			Help: "Record status transitions by kind and target status.",
		}, []string{"kind", "status"})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Outbound notifications by outcome.",
		}, []string{"outcome"})

		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(
			intakeSubmissions, fraudGateDecisions, statusTransitions,
			notificationsTotal, adminRequestsTotal, adminLatencySeconds, adminErrorsTotal,
		)
	})
}

// IntakeSubmissions exposes the intake outcome counter.
func IntakeSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return intakeSubmissions
}

// FraudGateDecisions exposes the fraud gate decision counter.
func FraudGateDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return fraudGateDecisions
}

// StatusTransitions exposes the transition counter.
func StatusTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return statusTransitions
}

// Notifications exposes the notification outcome counter.
func Notifications() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}
