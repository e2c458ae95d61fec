package config

import (
	"fmt"
	"sort"
)

const (
	// ProfileLegacy mirrors the first scan analysis: no header, fail-fast parsing
	ProfileLegacy = "legacy"
	// ProfileCurrent mirrors the second scan analysis: header row, skip-invalid parsing
	ProfileCurrent = "current"

	// DefaultOpportunityThreshold is the scanner's minSpreadPercent in percent
	DefaultOpportunityThreshold = 0.17
)

// DefaultColumns returns the column layout of the scanner's CSV export
func DefaultColumns() Columns {
	return Columns{
		Timestamp:      0,
		ScanNumber:     1,
		Pair:           2,
		Spread:         3,
		HasOpportunity: 4,
		RejectReason:   5,
		BuyDEX:         18,
		BuyPrice:       19,
		SellDEX:        20,
		SellRate:       21,
		EthPrice:       27,
		GasGwei:        28,
	}
}

var profiles = map[string]func() Config{
	ProfileLegacy: func() Config {
		return Config{
			Profile:              ProfileLegacy,
			Layout:               LayoutLegacy,
			FailurePolicy:        PolicyFailFast,
			HasHeader:            false,
			MinFields:            29,
			OpportunityThreshold: DefaultOpportunityThreshold,
			TopK:                 10,
			AnomalyLimit:         10,
			PairsPerScan:         3,
			Buckets: []Bucket{
				{Label: "< 0.1%", Low: 0, High: 0.1},
				{Label: "0.1~0.2%", Low: 0.1, High: 0.2},
				{Label: "0.2~0.3%", Low: 0.2, High: 0.3},
				{Label: "0.3~0.4%", Low: 0.3, High: 0.4},
				{Label: "0.4~0.5%", Low: 0.4, High: 0.5},
				{Label: ">= 0.5%", Low: 0.5, High: 999},
			},
			Columns:  DefaultColumns(),
			Color:    "auto",
			LogLevel: "info",
		}
	},
	ProfileCurrent: func() Config {
		return Config{
			Profile:              ProfileCurrent,
			Layout:               LayoutCurrent,
			FailurePolicy:        PolicySkipInvalid,
			HasHeader:            true,
			MinFields:            29,
			OpportunityThreshold: DefaultOpportunityThreshold,
			TopK:                 20,
			AnomalyLimit:         10,
			PairsPerScan:         3,
			Buckets: []Bucket{
				{Label: "< 0.1%", Low: 0, High: 0.1},
				{Label: "0.1~0.17%", Low: 0.1, High: 0.17},
				{Label: "0.17~0.2%", Low: 0.17, High: 0.2},
				{Label: "0.2~0.3%", Low: 0.2, High: 0.3},
				{Label: "0.3~0.4%", Low: 0.3, High: 0.4},
				{Label: "0.4~0.5%", Low: 0.4, High: 0.5},
				{Label: ">= 0.5%", Low: 0.5, High: 999},
			},
			Columns:  DefaultColumns(),
			Color:    "auto",
			LogLevel: "info",
		}
	},
}

// ForProfile returns the built-in defaults of a named profile
func ForProfile(name string) (Config, error) {
	build, ok := profiles[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown profile %q (valid: %v)", ErrInvalidConfig, name, ProfileNames())
	}
	return build(), nil
}

// ProfileNames lists the built-in profiles in sorted order
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
