package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/scanreport/internal/analysis"
	"github.com/sawpanic/scanreport/internal/config"
)

func newTestMetrics(t *testing.T) *RunMetrics {
	t.Helper()
	cfg, err := config.ForProfile(config.ProfileCurrent)
	require.NoError(t, err)
	return NewRunMetrics("run-test", cfg.Buckets)
}

func TestRowCounters(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveRecord(0.12, false)
	m.ObserveRecord(0.31, true)
	m.ObserveRejected(OutcomeInvalid, 2)
	m.ObserveRejected(OutcomeShort, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rows.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rows.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Opportunities))
}

func TestSpreadHistogram(t *testing.T) {
	m := newTestMetrics(t)
	for _, v := range []float64{0.05, 0.15, 0.18, 0.6} {
		m.ObserveRecord(v, false)
	}

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "scanreport_spread_percent" {
			require.Len(t, mf.GetMetric(), 1)
			metric := mf.GetMetric()[0]
			hist = metric.GetHistogram()
			require.Len(t, metric.GetLabel(), 1)
			assert.Equal(t, "run_id", metric.GetLabel()[0].GetName())
			assert.Equal(t, "run-test", metric.GetLabel()[0].GetValue())
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(4), hist.GetSampleCount())

	// Upper edges of the seven current-profile buckets
	require.Len(t, hist.GetBucket(), 7)
	assert.Equal(t, 0.1, hist.GetBucket()[0].GetUpperBound())
	assert.Equal(t, uint64(1), hist.GetBucket()[0].GetCumulativeCount())
	assert.Equal(t, uint64(2), hist.GetBucket()[1].GetCumulativeCount())
}

func TestHistogramEdgesDedup(t *testing.T) {
	edges := histogramEdges([]config.Bucket{
		{Label: "b", Low: 0.2, High: 0.5},
		{Label: "a", Low: 0, High: 0.2},
		{Label: "c", Low: 0.1, High: 0.5},
	})
	assert.Equal(t, []float64{0.2, 0.5}, edges)
}

func TestObserveSummaryAndTextfile(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveSummary(&analysis.Summary{
		AnomalyCount: 3,
		Spread:       analysis.Stats{Count: 4, Mean: 0.2, Median: 0.18, Min: 0.05, Max: 0.6},
	}, 1500*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Anomalies))
	assert.Equal(t, 0.6, testutil.ToFloat64(m.SpreadSummary.WithLabelValues("max")))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.Duration))

	path := filepath.Join(t.TempDir(), "scanreport.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `scanreport_anomalies{run_id="run-test"} 3`)
	assert.Contains(t, string(data), "# TYPE scanreport_spread_percent histogram")
}
