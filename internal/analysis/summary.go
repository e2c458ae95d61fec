package analysis

import (
	"github.com/sawpanic/scanreport/internal/config"
	"github.com/sawpanic/scanreport/internal/data/scanlog"
)

// PairStats is the spread summary of one token pair
type PairStats struct {
	Pair string
	Stats
}

// ReasonCount is one row of the reject reason table
type ReasonCount struct {
	Reason  string
	Count   int
	Percent float64 // Share of all valid records
}

// BucketCount is one row of the spread distribution
type BucketCount struct {
	Bucket  config.Bucket
	Count   int
	Percent float64 // Share of all spreads
}

// Summary holds every value the report renders
type Summary struct {
	TotalScans           int
	Opportunities        int
	OpportunityRate      float64 // Percent of records flagged as opportunity
	OpportunityThreshold float64

	Spread   Stats
	EthPrice Stats
	Gas      Stats

	// MaxSpread is the first record with the highest spread above zero, nil
	// when no record has a positive spread.
	MaxSpread *scanlog.ScanRecord

	Pairs           []PairStats
	RejectReasons   []ReasonCount // Count descending
	ExplicitRejects int
	ImplicitRejects int // Records without an explicit reject reason

	// BelowThreshold counts spreads under the opportunity threshold
	BelowThreshold int

	Distribution []BucketCount
	Unbucketed   int // Spreads outside every bucket

	TopK         int // Configured length of the top spreads table
	Top          []scanlog.ScanRecord
	AnomalyCount int                  // Spread >= threshold but not flagged
	TopAnomalies []scanlog.ScanRecord // Highest anomalies, at most the anomaly limit

	FirstTimestamp string
	LastTimestamp  string
	DurationHours  float64
}

// ScanCycles estimates the number of scan cycles from the record count
func (s *Summary) ScanCycles(pairsPerScan int) int {
	if pairsPerScan <= 0 {
		return s.TotalScans
	}
	return s.TotalScans / pairsPerScan
}

// TopReason returns the most frequent reject reason, if any
func (s *Summary) TopReason() (ReasonCount, bool) {
	if len(s.RejectReasons) == 0 {
		return ReasonCount{}, false
	}
	return s.RejectReasons[0], true
}
