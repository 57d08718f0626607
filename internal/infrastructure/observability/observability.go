// Package observability declares the service's Prometheus collectors and the
// /metrics handler.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

var (
	SubmissionsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_received_total",
		Help: "The total number of contact-form submissions accepted",
	}, []string{"has_voice_note"})

	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_rejected_total",
		Help: "The total number of submissions rejected at intake",
	}, []string{"reason"}) // reason: validation, rate_limit, duplicate

	JobTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "job_transitions_total",
		Help: "The total number of job status transitions applied",
	}, []string{"to"})

	InvoiceTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_transitions_total",
		Help: "The total number of invoice status transitions applied",
	}, []string{"to"})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_emails_total",
		Help: "The total number of notification emails handed to the gateway",
	}, []string{"outcome"}) // outcome: sent, failed, disabled
)

// MetricsHandler exposes the default registry; routes mounts it on /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
