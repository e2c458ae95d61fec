package analysis

import (
	"slices"
	"time"
)

// Stats summarises one numeric series
type Stats struct {
	Count  int
	Mean   float64
	Median float64 // Element at index n/2 of the ascending sort
	Min    float64
	Max    float64
}

// Range returns Max - Min
func (s Stats) Range() float64 {
	return s.Max - s.Min
}

// VolatilityPct returns (Max-Min)/Min*100; ok is false unless Min > 0
func (s Stats) VolatilityPct() (pct float64, ok bool) {
	if s.Min <= 0 {
		return 0, false
	}
	return (s.Max - s.Min) / s.Min * 100, true
}

// computeStats returns zero Stats for an empty series. The median is
// sorted[n/2], the upper-middle element for even n.
func computeStats(values []float64) Stats {
	n := len(values)
	if n == 0 {
		return Stats{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return Stats{
		Count:  n,
		Mean:   sum / float64(n),
		Median: sorted[n/2],
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

var timestampFormats = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// parseInstant reads an ISO-8601 timestamp; a trailing Z is UTC and
// timestamps without an offset are taken as UTC. zoned reports whether the
// text carried an offset.
func parseInstant(s string) (time.Time, bool, bool) {
	for _, f := range timestampFormats {
		if t, err := time.Parse(f.layout, s); err == nil {
			return t, f.zoned, true
		}
	}
	return time.Time{}, false, false
}

// elapsedHours returns the hours between two timestamps, or 0 if either
// fails to parse or only one of them carries an offset.
func elapsedHours(first, last string) float64 {
	start, startZoned, ok := parseInstant(first)
	if !ok {
		return 0
	}
	end, endZoned, ok := parseInstant(last)
	if !ok || startZoned != endZoned {
		return 0
	}
	return end.Sub(start).Hours()
}
