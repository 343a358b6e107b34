package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mrpEventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "events",
		Name:      "consumed_total",
		Help:      "Total number of relayed MRP outbox events consumed, by topic.",
	}, []string{"topic"})

	mrpLastRunCompleted = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mrp",
		Subsystem: "events",
		Name:      "last_run_completed_timestamp_seconds",
		Help:      "Completion time of the most recently consumed run completion event.",
	})
)
