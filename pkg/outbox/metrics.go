package outbox

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics register once on the default registry; every relay and
// publisher in the process shares them, labelled by table.
type metrics struct {
	enqueueTotal  *prometheus.CounterVec
	dispatchTotal *prometheus.CounterVec
	deadTotal     *prometheus.CounterVec
	prunedTotal   *prometheus.CounterVec

	dispatchLatency *prometheus.HistogramVec

	pending     *prometheus.GaugeVec
	locked      *prometheus.GaugeVec
	oldestAge   *prometheus.GaugeVec
	relayLeader *prometheus.GaugeVec
}

var metricsSingleton = sync.OnceValue(newMetrics)

func getMetrics() *metrics {
	return metricsSingleton()
}

func newMetrics() *metrics {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outbox",
			Name:      name,
			Help:      help,
		}, labels)
	}
	tableGauge := func(name, help string) *prometheus.GaugeVec {
		return promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "outbox",
			Name:      name,
			Help:      help,
		}, []string{"table"})
	}

	return &metrics{
		enqueueTotal:  counter("enqueue_total", "Total number of messages enqueued.", "table", "topic"),
		dispatchTotal: counter("dispatch_total", "Total number of dispatch attempts by result.", "table", "topic", "result"),
		deadTotal:     counter("dead_total", "Total number of messages that exhausted their delivery attempts.", "table", "topic"),
		prunedTotal:   counter("pruned_total", "Total number of rows removed by the retention cleaner.", "table", "kind"),
		dispatchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "outbox",
			Name:      "dispatch_latency_seconds",
			Help:      "Dispatch latency by result.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"table", "topic", "result"}),
		pending:     tableGauge("pending", "Current number of unpublished messages."),
		locked:      tableGauge("locked", "Current number of unpublished messages holding a claim lock."),
		oldestAge:   tableGauge("oldest_pending_age_seconds", "Age of the oldest unpublished message, the relay lag."),
		relayLeader: tableGauge("relay_leader", "Whether this instance holds the relay leader lock (1/0)."),
	}
}
