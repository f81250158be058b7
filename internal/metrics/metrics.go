// Package metrics exposes Prometheus collectors for analysis runs and upstream fetches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run status labels
const (
	StatusOK       = "ok"
	StatusEmpty    = "empty"
	StatusError    = "error"
	StatusUpstream = "upstream_error"
)

// Registry holds all collectors on a private prometheus registry
// ⭐ SSOT: 메트릭 정의는 여기서만
type Registry struct {
	reg *prometheus.Registry

	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	RankedCandidates *prometheus.GaugeVec
	ExcludedTotal    *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	ExportsWritten   prometheus.Counter
}

// New creates a registry with process/go collectors and the ccscan metrics
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		AnalysisRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccscan_analysis_runs_total",
				Help: "Total number of analysis runs by trigger and status",
			},
			[]string{"trigger", "status"},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccscan_analysis_duration_seconds",
				Help:    "End-to-end duration of an analysis run (fetch + rank)",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"trigger"},
		),

		RankedCandidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ccscan_ranked_candidates",
				Help: "Number of ranked candidates in the latest run per symbol",
			},
			[]string{"symbol"},
		),

		ExcludedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccscan_excluded_candidates_total",
				Help: "Candidates dropped from ranking because a metric was undefined",
			},
			[]string{"reason"},
		),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccscan_upstream_fetch_duration_seconds",
				Help:    "Duration of Schwab fetches by endpoint and result",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "result"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccscan_snapshot_cache_lookups_total",
				Help: "Snapshot cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),

		ExportsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ccscan_exports_written_total",
				Help: "Total number of CSV exports written to disk",
			},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.AnalysisRuns,
		r.AnalysisDuration,
		r.RankedCandidates,
		r.ExcludedTotal,
		r.FetchDuration,
		r.CacheLookups,
		r.ExportsWritten,
	)

	return r
}

// ObserveRun records one finished analysis run
func (r *Registry) ObserveRun(trigger, status string, duration time.Duration) {
	if r == nil {
		return
	}
	r.AnalysisRuns.WithLabelValues(trigger, status).Inc()
	r.AnalysisDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

// SetRanked records the candidate count of the latest run for symbol
func (r *Registry) SetRanked(symbol string, n int) {
	if r == nil {
		return
	}
	r.RankedCandidates.WithLabelValues(symbol).Set(float64(n))
}

// AddExcluded counts a candidate excluded for reason
func (r *Registry) AddExcluded(reason string) {
	if r == nil {
		return
	}
	r.ExcludedTotal.WithLabelValues(reason).Inc()
}

// ObserveFetch records one upstream call
func (r *Registry) ObserveFetch(endpoint string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	result := StatusOK
	if err != nil {
		result = StatusError
	}
	r.FetchDuration.WithLabelValues(endpoint, result).Observe(duration.Seconds())
}

// CacheLookup counts a snapshot cache hit, miss or error
func (r *Registry) CacheLookup(result string) {
	if r == nil {
		return
	}
	r.CacheLookups.WithLabelValues(result).Inc()
}

// ExportWritten counts a CSV file written
func (r *Registry) ExportWritten() {
	if r == nil {
		return
	}
	r.ExportsWritten.Inc()
}

// Handler serves the registry in Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
