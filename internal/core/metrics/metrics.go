// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipment_tracker"

var (
	// CarrierRequests counts outbound carrier calls by provider, operation and result.
	CarrierRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_requests_total",
		Help:      "Outbound carrier API calls.",
	}, []string{"provider", "operation", "result"})

	// CarrierRequestDuration observes outbound carrier call latency.
	CarrierRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "carrier_request_duration_seconds",
		Help:      "Latency of outbound carrier API calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	// CircuitBreakerState reports the breaker state per carrier (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "carrier_circuit_breaker_state",
		Help:      "Circuit breaker state per carrier.",
	}, []string{"provider"})

	// CarrierPollsSkipped counts live polls that were not attempted, by reason.
	CarrierPollsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_polls_skipped_total",
		Help:      "Live carrier polls skipped during tracking lookups.",
	}, []string{"reason"})

	// UnmappedStatuses counts carrier tokens the normalizer did not recognize.
	UnmappedStatuses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unmapped_carrier_statuses_total",
		Help:      "Carrier status tokens that fell back to the default status.",
	}, []string{"provider"})

	// StatusTransitions counts appended history entries by source and target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Shipment status transitions.",
	}, []string{"from", "to"})

	// RejectedTransitions counts updates refused by the transition table.
	RejectedTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_transitions_total",
		Help:      "Shipment status updates rejected as illegal transitions.",
	}, []string{"from", "to"})

	// Notifications counts dispatcher outcomes.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Buyer notification dispatch outcomes.",
	}, []string{"outcome"})
)
