package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline instrumentation. Construct once per process; use
// a fresh registry in tests.
type Metrics struct {
	DeliveriesTotal          *prometheus.CounterVec
	EnrichmentFailures       prometheus.Counter
	CounterIncrementFailures prometheus.Counter
	ProcessDuration          prometheus.Histogram
	ImportedCalls            prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Inbound webhook deliveries by event kind and outcome",
		}, []string{"event", "outcome"}),
		EnrichmentFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "webhook_enrichment_failures_total",
			Help: "Provider call fetches that failed during webhook enrichment",
		}),
		CounterIncrementFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "webhook_counter_increment_failures_total",
			Help: "Best-effort agent call_count increments that failed",
		}),
		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "webhook_process_duration_seconds",
			Help:    "Time taken to process one webhook delivery",
			Buckets: prometheus.DefBuckets,
		}),
		ImportedCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "import_calls_total",
			Help: "Calls written by the bulk provider import",
		}),
	}
}
