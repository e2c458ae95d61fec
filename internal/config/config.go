package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when the effective configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Policy selects how malformed rows are handled during the read pass
type Policy string

const (
	// PolicyFailFast aborts the run on the first malformed row
	PolicyFailFast Policy = "fail-fast"
	// PolicySkipInvalid drops malformed rows from every aggregate and keeps going
	PolicySkipInvalid Policy = "skip-invalid"
)

// String implements pflag.Value
func (p *Policy) String() string { return string(*p) }

// Type implements pflag.Value
func (p *Policy) Type() string { return "policy" }

// Set implements pflag.Value and envconfig.Setter
func (p *Policy) Set(value string) error {
	switch Policy(value) {
	case PolicyFailFast, PolicySkipInvalid:
		*p = Policy(value)
		return nil
	default:
		return fmt.Errorf("unknown failure policy %q (valid: %s, %s)", value, PolicyFailFast, PolicySkipInvalid)
	}
}

// Layout selects the report section set
type Layout string

const (
	// LayoutLegacy reproduces the first analysis script: route detail, top 10, no gas section
	LayoutLegacy Layout = "legacy"
	// LayoutCurrent reproduces the second analysis script: gas, anomalies, top 20
	LayoutCurrent Layout = "current"
)

// String implements pflag.Value
func (l *Layout) String() string { return string(*l) }

// Type implements pflag.Value
func (l *Layout) Type() string { return "layout" }

// Set implements pflag.Value and envconfig.Setter
func (l *Layout) Set(value string) error {
	switch Layout(value) {
	case LayoutLegacy, LayoutCurrent:
		*l = Layout(value)
		return nil
	default:
		return fmt.Errorf("unknown layout %q (valid: %s, %s)", value, LayoutLegacy, LayoutCurrent)
	}
}

// Bucket is a half-open spread interval [Low, High) of the distribution histogram
type Bucket struct {
	Label string  `yaml:"label" validate:"required"`
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
}

// Contains reports whether v falls inside the bucket
func (b Bucket) Contains(v float64) bool {
	return b.Low <= v && v < b.High
}

// Columns holds the 0-based CSV column indices consumed by the parser
type Columns struct {
	Timestamp      int `yaml:"timestamp" validate:"min=0"`
	ScanNumber     int `yaml:"scan_number" validate:"min=0"`
	Pair           int `yaml:"pair" validate:"min=0"`
	Spread         int `yaml:"spread" validate:"min=0"`
	HasOpportunity int `yaml:"has_opportunity" validate:"min=0"`
	RejectReason   int `yaml:"reject_reason" validate:"min=0"`
	BuyDEX         int `yaml:"buy_dex" validate:"min=0"`
	BuyPrice       int `yaml:"buy_price" validate:"min=0"`
	SellDEX        int `yaml:"sell_dex" validate:"min=0"`
	SellRate       int `yaml:"sell_rate" validate:"min=0"`
	EthPrice       int `yaml:"eth_price" validate:"min=0"`
	GasGwei        int `yaml:"gas_gwei" validate:"min=0"`
}

// Config is the effective configuration of one analysis run
type Config struct {
	File                 string   `yaml:"file" envconfig:"FILE" validate:"required"`
	Profile              string   `yaml:"profile" envconfig:"PROFILE" validate:"oneof=legacy current"`
	Layout               Layout   `yaml:"layout" envconfig:"LAYOUT" validate:"oneof=legacy current"`
	FailurePolicy        Policy   `yaml:"failure_policy" envconfig:"FAILURE_POLICY" validate:"oneof=fail-fast skip-invalid"`
	HasHeader            bool     `yaml:"has_header" envconfig:"HAS_HEADER"`
	MinFields            int      `yaml:"min_fields" envconfig:"MIN_FIELDS" validate:"min=1"`
	OpportunityThreshold float64  `yaml:"opportunity_threshold" envconfig:"OPPORTUNITY_THRESHOLD" validate:"gte=0"`
	TopK                 int      `yaml:"top_k" envconfig:"TOP_K" validate:"min=1"`
	AnomalyLimit         int      `yaml:"anomaly_limit" envconfig:"ANOMALY_LIMIT" validate:"min=0"`
	PairsPerScan         int      `yaml:"pairs_per_scan" envconfig:"PAIRS_PER_SCAN" validate:"min=1"` // Records emitted per scan cycle
	Buckets              []Bucket `yaml:"buckets" ignored:"true" validate:"required,min=1,dive"`
	Columns              Columns  `yaml:"columns" ignored:"true"`
	Color                string   `yaml:"color" envconfig:"COLOR" validate:"oneof=auto always never"`
	LogLevel             string   `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	MetricsOut           string   `yaml:"metrics_out" envconfig:"METRICS_OUT"` // Prometheus textfile path, empty disables
}

// Validate checks struct constraints and bucket bounds
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for i, b := range c.Buckets {
		if b.Low >= b.High {
			return fmt.Errorf("%w: bucket %d (%s) has low %.4f >= high %.4f", ErrInvalidConfig, i, b.Label, b.Low, b.High)
		}
	}

	return nil
}
