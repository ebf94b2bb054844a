// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InboundMessages counts inbound chat messages by classified signal.
	InboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chama_inbound_messages_total",
		Help: "Inbound chat messages by signal (affirmative, status, unknown, unregistered, error).",
	}, []string{"signal"})

	// PaymentsRecorded counts ledger entries by source (chat, admin).
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chama_payments_recorded_total",
		Help: "Payments appended to the ledger.",
	}, []string{"source"})

	// RemindersSent counts successfully delivered reminders.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chama_reminders_sent_total",
		Help: "Reminders delivered to unpaid members.",
	})

	// RemindersFailed counts reminders that could not be delivered.
	RemindersFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chama_reminders_failed_total",
		Help: "Reminders that failed to deliver.",
	})

	// SweepDuration observes how long each reminder sweep takes.
	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chama_sweep_duration_seconds",
		Help:    "Duration of reminder sweeps.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// HTTPRequests counts every HTTP request, Connect calls included, by
	// route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chama_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "status"})
)
