package scanlog

import "strings"

// Route is the buy/sell venue detail of a scan, kept as raw text
type Route struct {
	BuyDEX   string
	BuyPrice string
	SellDEX  string
	SellRate string // Tokens received per 1 WETH on the sell leg
}

// ScanRecord is one parsed scanner telemetry row
type ScanRecord struct {
	Line           int // 1-based CSV record number, header included
	Timestamp      string
	ScanNumber     int
	Pair           string
	SpreadPercent  float64
	HasOpportunity int
	RejectReason   string
	EthPriceUSD    float64
	GasGwei        float64
	Route          Route
}

// IsOpportunity reports whether the scanner flagged the row as an opportunity
func (r ScanRecord) IsOpportunity() bool {
	return r.HasOpportunity == 1
}

// TimeOfDay returns the HH:MM:SS part of an ISO timestamp, or the first
// eight characters when the timestamp has no T separator.
func (r ScanRecord) TimeOfDay() string {
	ts := r.Timestamp
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		ts = ts[i+1:]
		if j := strings.IndexByte(ts, 'T'); j >= 0 {
			ts = ts[:j]
		}
	}
	return truncate(ts, 8)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
