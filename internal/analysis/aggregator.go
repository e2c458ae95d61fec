package analysis

import (
	"cmp"
	"errors"
	"slices"
	"sort"

	"github.com/sawpanic/scanreport/internal/config"
	"github.com/sawpanic/scanreport/internal/data/scanlog"
)

// ErrNoRecords is returned when a fail-fast run finds nothing to report on
var ErrNoRecords = errors.New("no scan records")

// Options configures the derived statistics
type Options struct {
	OpportunityThreshold float64 // Spread (percent) at or above which an unflagged row is an anomaly
	TopK                 int
	AnomalyLimit         int
	Buckets              []config.Bucket
}

// OptionsFromConfig extracts aggregator options from the run configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OpportunityThreshold: cfg.OpportunityThreshold,
		TopK:                 cfg.TopK,
		AnomalyLimit:         cfg.AnomalyLimit,
		Buckets:              cfg.Buckets,
	}
}

// Aggregator accumulates scan records in a single pass. It is append-only:
// records are never removed or modified once added.
type Aggregator struct {
	opts Options

	records     []scanlog.ScanRecord
	spreads     []float64
	ethPrices   []float64
	gasPrices   []float64
	pairSpreads map[string][]float64

	reasonCounts map[string]int
	reasonOrder  []string

	maxSpread      float64
	maxSpreadIdx   int
	anomalies      []scanlog.ScanRecord
	opportunities  int
	belowThreshold int
}

// NewAggregator creates an empty aggregator
func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{
		opts:         opts,
		pairSpreads:  make(map[string][]float64),
		reasonCounts: make(map[string]int),
		maxSpreadIdx: -1,
	}
}

// Add folds one record into the running aggregates
func (a *Aggregator) Add(rec scanlog.ScanRecord) {
	a.records = append(a.records, rec)
	a.spreads = append(a.spreads, rec.SpreadPercent)
	a.ethPrices = append(a.ethPrices, rec.EthPriceUSD)
	a.gasPrices = append(a.gasPrices, rec.GasGwei)
	a.pairSpreads[rec.Pair] = append(a.pairSpreads[rec.Pair], rec.SpreadPercent)

	if rec.IsOpportunity() {
		a.opportunities++
	}

	if rec.RejectReason != "" {
		if _, seen := a.reasonCounts[rec.RejectReason]; !seen {
			a.reasonOrder = append(a.reasonOrder, rec.RejectReason)
		}
		a.reasonCounts[rec.RejectReason]++
	}

	if rec.SpreadPercent < a.opts.OpportunityThreshold {
		a.belowThreshold++
	}
	if rec.SpreadPercent >= a.opts.OpportunityThreshold && rec.HasOpportunity == 0 {
		a.anomalies = append(a.anomalies, rec)
	}

	// Strictly greater: the first record at the maximum is kept
	if rec.SpreadPercent > a.maxSpread {
		a.maxSpread = rec.SpreadPercent
		a.maxSpreadIdx = len(a.records) - 1
	}
}

// Len returns the number of records added
func (a *Aggregator) Len() int {
	return len(a.records)
}

// Finalize computes the derived report values. It does not modify the
// aggregator and may be called more than once.
func (a *Aggregator) Finalize() *Summary {
	total := len(a.records)

	s := &Summary{
		TotalScans:           total,
		Opportunities:        a.opportunities,
		OpportunityThreshold: a.opts.OpportunityThreshold,
		Spread:               computeStats(a.spreads),
		EthPrice:             computeStats(a.ethPrices),
		Gas:                  computeStats(a.gasPrices),
		BelowThreshold:       a.belowThreshold,
		TopK:                 a.opts.TopK,
		AnomalyCount:         len(a.anomalies),
	}

	if total > 0 {
		s.OpportunityRate = float64(a.opportunities) / float64(total) * 100
		s.FirstTimestamp = a.records[0].Timestamp
		s.LastTimestamp = a.records[total-1].Timestamp
		s.DurationHours = elapsedHours(s.FirstTimestamp, s.LastTimestamp)
	}

	if a.maxSpreadIdx >= 0 {
		rec := a.records[a.maxSpreadIdx]
		s.MaxSpread = &rec
	}

	s.Pairs = a.pairStats()
	s.RejectReasons, s.ExplicitRejects = a.reasonStats(total)
	s.ImplicitRejects = total - s.ExplicitRejects
	s.Distribution, s.Unbucketed = a.distribution()
	s.Top = topBySpread(a.records, a.opts.TopK)
	s.TopAnomalies = topBySpread(a.anomalies, a.opts.AnomalyLimit)

	return s
}

func (a *Aggregator) pairStats() []PairStats {
	pairs := make([]string, 0, len(a.pairSpreads))
	for pair := range a.pairSpreads {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	out := make([]PairStats, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, PairStats{Pair: pair, Stats: computeStats(a.pairSpreads[pair])})
	}
	return out
}

func (a *Aggregator) reasonStats(total int) ([]ReasonCount, int) {
	out := make([]ReasonCount, 0, len(a.reasonOrder))
	explicit := 0
	for _, reason := range a.reasonOrder {
		count := a.reasonCounts[reason]
		explicit += count
		out = append(out, ReasonCount{
			Reason:  reason,
			Count:   count,
			Percent: float64(count) / float64(total) * 100,
		})
	}

	// Stable so equal counts keep first-appearance order
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out, explicit
}

func (a *Aggregator) distribution() ([]BucketCount, int) {
	out := make([]BucketCount, len(a.opts.Buckets))
	for i, b := range a.opts.Buckets {
		out[i].Bucket = b
	}

	unbucketed := 0
	for _, v := range a.spreads {
		matched := false
		for i, b := range a.opts.Buckets {
			if b.Contains(v) {
				out[i].Count++
				matched = true
				break
			}
		}
		if !matched {
			unbucketed++
		}
	}

	if n := len(a.spreads); n > 0 {
		for i := range out {
			out[i].Percent = float64(out[i].Count) / float64(n) * 100
		}
	}
	return out, unbucketed
}

// topBySpread returns the k records with the highest spread. The sort is
// stable, so equal spreads keep input order.
func topBySpread(records []scanlog.ScanRecord, k int) []scanlog.ScanRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(x, y scanlog.ScanRecord) int {
		return cmp.Compare(y.SpreadPercent, x.SpreadPercent)
	})
	if k >= 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
