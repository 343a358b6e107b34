package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mrpRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "planning",
		Name:      "runs_total",
		Help:      "Total number of MRP runs broken down by terminal status.",
	}, []string{"status"})

	mrpRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mrp",
		Subsystem: "planning",
		Name:      "run_duration_seconds",
		Help:      "Wall time of an MRP run from acceptance to terminal state.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	mrpPlannedOrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "planning",
		Name:      "planned_orders_total",
		Help:      "Total number of planned orders produced by completed runs.",
	})

	mrpExceptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "planning",
		Name:      "exceptions_total",
		Help:      "Total number of planning exceptions broken down by type.",
	}, []string{"type"})

	mrpOrdersConverted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "orders",
		Name:      "converted_total",
		Help:      "Total number of planned orders converted to work orders.",
	})

	mrpWriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mrp",
		Subsystem: "write",
		Name:      "conflicts_total",
		Help:      "Total number of MRP write conflicts broken down by kind.",
	}, []string{"kind"})
)

func recordRunFinished(status string, seconds float64) {
	mrpRunsTotal.WithLabelValues(status).Inc()
	mrpRunDuration.Observe(seconds)
}

func recordPlanningOutput(orders int, exceptionTypes map[string]int) {
	mrpPlannedOrdersTotal.Add(float64(orders))
	for exType, n := range exceptionTypes {
		mrpExceptionsTotal.WithLabelValues(exType).Add(float64(n))
	}
}

func recordOrderConverted() {
	mrpOrdersConverted.Inc()
}

func recordWriteConflict(kind string) {
	if kind == "" {
		kind = "other"
	}
	mrpWriteConflicts.WithLabelValues(kind).Inc()
}
