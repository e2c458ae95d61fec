package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sawpanic/scanreport/internal/analysis"
	"github.com/sawpanic/scanreport/internal/config"
)

// Row outcomes used as the "outcome" label of scanreport_rows_total
const (
	OutcomeAccepted  = "accepted"
	OutcomeShort     = "short"
	OutcomeInvalid   = "invalid"
	OutcomeMalformed = "malformed"
)

// RunMetrics holds the Prometheus metrics of a single analysis run.
// Each run gets its own registry so nothing leaks into the default one.
type RunMetrics struct {
	registry *prometheus.Registry

	Rows          *prometheus.CounterVec
	Opportunities prometheus.Counter
	Spread        prometheus.Histogram

	Anomalies     prometheus.Gauge
	SpreadSummary *prometheus.GaugeVec
	Duration      prometheus.Gauge
	LastRun       prometheus.Gauge
}

// NewRunMetrics creates and registers the run metrics. The spread histogram
// uses the upper edges of the report buckets.
func NewRunMetrics(runID string, buckets []config.Bucket) *RunMetrics {
	constLabels := prometheus.Labels{"run_id": runID}

	m := &RunMetrics{
		registry: prometheus.NewRegistry(),

		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "scanreport_rows_total",
				Help:        "CSV rows read, by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),

		Opportunities: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "scanreport_opportunities_total",
				Help:        "Records flagged as arbitrage opportunity",
				ConstLabels: constLabels,
			},
		),

		Spread: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "scanreport_spread_percent",
				Help:        "Distribution of scanned spreads in percent",
				Buckets:     histogramEdges(buckets),
				ConstLabels: constLabels,
			},
		),

		Anomalies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "scanreport_anomalies",
				Help:        "Records at or above the opportunity threshold that were not flagged",
				ConstLabels: constLabels,
			},
		),

		SpreadSummary: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "scanreport_spread_summary_percent",
				Help:        "Spread summary statistics in percent",
				ConstLabels: constLabels,
			},
			[]string{"stat"},
		),

		Duration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "scanreport_run_duration_seconds",
				Help:        "Wall time of the analysis run",
				ConstLabels: constLabels,
			},
		),

		LastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "scanreport_last_run_timestamp_seconds",
				Help:        "Unix time the analysis run finished",
				ConstLabels: constLabels,
			},
		),
	}

	m.registry.MustRegister(
		m.Rows,
		m.Opportunities,
		m.Spread,
		m.Anomalies,
		m.SpreadSummary,
		m.Duration,
		m.LastRun,
	)

	return m
}

func histogramEdges(buckets []config.Bucket) []float64 {
	seen := make(map[float64]bool, len(buckets))
	edges := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		if !seen[b.High] {
			seen[b.High] = true
			edges = append(edges, b.High)
		}
	}
	sort.Float64s(edges)
	if len(edges) == 0 {
		return prometheus.DefBuckets
	}
	return edges
}

// ObserveRecord counts an accepted record
func (m *RunMetrics) ObserveRecord(spread float64, opportunity bool) {
	m.Rows.WithLabelValues(OutcomeAccepted).Inc()
	m.Spread.Observe(spread)
	if opportunity {
		m.Opportunities.Inc()
	}
}

// ObserveRejected counts a row that did not become a record
func (m *RunMetrics) ObserveRejected(outcome string, n int) {
	if n <= 0 {
		return
	}
	m.Rows.WithLabelValues(outcome).Add(float64(n))
}

// ObserveSummary records the finalized statistics
func (m *RunMetrics) ObserveSummary(s *analysis.Summary, elapsed time.Duration) {
	m.Anomalies.Set(float64(s.AnomalyCount))
	m.SpreadSummary.WithLabelValues("mean").Set(s.Spread.Mean)
	m.SpreadSummary.WithLabelValues("median").Set(s.Spread.Median)
	m.SpreadSummary.WithLabelValues("min").Set(s.Spread.Min)
	m.SpreadSummary.WithLabelValues("max").Set(s.Spread.Max)
	m.Duration.Set(elapsed.Seconds())
	m.LastRun.SetToCurrentTime()
}

// Registry exposes the run registry, mainly for tests
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
