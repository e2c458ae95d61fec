package scanlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sawpanic/scanreport/internal/config"
)

var (
	// ErrInvalidField marks a field whose text does not convert to its type
	ErrInvalidField = errors.New("invalid field")
	// ErrMissingField marks an empty field the fail-fast policy requires
	ErrMissingField = errors.New("missing required field")
)

// RowError locates a read or conversion failure in the input
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Parser converts raw rows into ScanRecords.
//
// Under PolicyFailFast the spread, opportunity flag and ETH price must be
// present; under PolicySkipInvalid empty numeric fields default to zero.
// Malformed values are an error under both policies, the caller decides
// whether that aborts the run or drops the row.
type Parser struct {
	policy  config.Policy
	columns config.Columns
}

// NewParser creates a parser for the given failure policy and column layout
func NewParser(policy config.Policy, columns config.Columns) *Parser {
	return &Parser{policy: policy, columns: columns}
}

// Parse converts one row
func (p *Parser) Parse(row Row) (ScanRecord, error) {
	required := p.policy == config.PolicyFailFast
	c := p.columns

	rec := ScanRecord{
		Line:         row.Line,
		Timestamp:    row.Field(c.Timestamp),
		Pair:         row.Field(c.Pair),
		RejectReason: strings.TrimSpace(row.Field(c.RejectReason)),
		Route: Route{
			BuyDEX:   row.Field(c.BuyDEX),
			BuyPrice: row.Field(c.BuyPrice),
			SellDEX:  row.Field(c.SellDEX),
			SellRate: row.Field(c.SellRate),
		},
	}

	var err error
	if rec.ScanNumber, err = parseInt(row, c.ScanNumber, "scan_number", false); err != nil {
		return ScanRecord{}, err
	}
	if rec.SpreadPercent, err = parseFloat(row, c.Spread, "spread_percent", required); err != nil {
		return ScanRecord{}, err
	}
	if rec.HasOpportunity, err = parseInt(row, c.HasOpportunity, "has_opportunity", required); err != nil {
		return ScanRecord{}, err
	}
	if rec.EthPriceUSD, err = parseFloat(row, c.EthPrice, "eth_price_usd", required); err != nil {
		return ScanRecord{}, err
	}
	if rec.GasGwei, err = parseFloat(row, c.GasGwei, "gas_gwei", false); err != nil {
		return ScanRecord{}, err
	}

	return rec, nil
}

func parseFloat(row Row, idx int, column string, required bool) (float64, error) {
	raw := row.Field(idx)
	if raw == "" {
		if required {
			return 0, &RowError{Line: row.Line, Column: column, Err: ErrMissingField}
		}
		return 0, nil
	}

	// Only a truly empty field is missing; blanks are a malformed value
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &RowError{Line: row.Line, Column: column, Err: fmt.Errorf("%w: %q is not a number", ErrInvalidField, raw)}
	}
	return v, nil
}

func parseInt(row Row, idx int, column string, required bool) (int, error) {
	raw := row.Field(idx)
	if raw == "" {
		if required {
			return 0, &RowError{Line: row.Line, Column: column, Err: ErrMissingField}
		}
		return 0, nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &RowError{Line: row.Line, Column: column, Err: fmt.Errorf("%w: %q is not an integer", ErrInvalidField, raw)}
	}
	return v, nil
}
