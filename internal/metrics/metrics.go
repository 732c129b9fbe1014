package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsIngested counts events normalized across all successful loads.
	EventsIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cloudtrail_explorer",
		Name:      "events_ingested_total",
		Help:      "Events normalized by successful loads",
	})

	// LoadsTotal counts load attempts by outcome (ok, invalid_json, malformed_input, error).
	LoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cloudtrail_explorer",
		Name:      "loads_total",
		Help:      "Document load attempts by outcome",
	}, []string{"outcome"})

	// SnapshotRows is the row count of the current snapshot.
	SnapshotRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cloudtrail_explorer",
		Name:      "snapshot_rows",
		Help:      "Rows in the current snapshot",
	})

	// QueryDuration observes filter, sort and paginate passes.
	QueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cloudtrail_explorer",
		Name:      "query_duration_seconds",
		Help:      "Time spent recomputing a result page",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(EventsIngested, LoadsTotal, SnapshotRows, QueryDuration)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
