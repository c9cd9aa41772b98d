package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	journaldomain "citysync-v0/internal/journal/domain"
)

var (
	SyncCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citysync_cycles_total",
		Help: "Total completed sync cycles by polling mode",
	}, []string{"mode"})
	SyncCycleDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "citysync_cycle_duration_ms",
		Help:    "Sync cycle duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	SyncChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citysync_changes_total",
		Help: "Total classified changes by kind",
	}, []string{"kind"})
	SyncRecordsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "citysync_records_skipped_total",
		Help: "Total source records skipped as unparsable",
	})
	FetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "citysync_fetch_errors_total",
		Help: "Total failed bulk fetches",
	})
	CacheEntities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "citysync_cache_entities",
		Help: "Buildings currently held in the cache",
	})
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "citysync_lookups_total",
		Help: "Building lookups by method and outcome",
	}, []string{"method", "outcome"})
	AmbiguousMappingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "citysync_ambiguous_mappings_total",
		Help: "Identifier derivations that disagreed with a confirmed mapping",
	})
)

func init() {
	prometheus.MustRegister(SyncCyclesTotal)
	prometheus.MustRegister(SyncCycleDurationMs)
	prometheus.MustRegister(SyncChangesTotal)
	prometheus.MustRegister(SyncRecordsSkippedTotal)
	prometheus.MustRegister(FetchErrorsTotal)
	prometheus.MustRegister(CacheEntities)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(AmbiguousMappingsTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// Recorder adapts the registered metrics to the poller's
// instrumentation hook.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (*Recorder) RecordCycle(mode string, duration time.Duration, result journaldomain.Cycle) {
	SyncCyclesTotal.WithLabelValues(mode).Inc()
	SyncCycleDurationMs.Observe(float64(duration.Milliseconds()))
	SyncChangesTotal.WithLabelValues("new").Add(float64(result.New))
	SyncChangesTotal.WithLabelValues("changed").Add(float64(result.Changed))
	SyncChangesTotal.WithLabelValues("removed").Add(float64(result.Removed))
	SyncRecordsSkippedTotal.Add(float64(result.Skipped))
}

func (*Recorder) RecordFetchError() {
	FetchErrorsTotal.Inc()
}

func (*Recorder) RecordCacheSize(n int) {
	CacheEntities.Set(float64(n))
}
