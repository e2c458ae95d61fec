package scanlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// ReaderOptions controls header handling and short-row filtering
type ReaderOptions struct {
	HasHeader bool // Consume and discard exactly one leading row
	MinFields int  // Rows with fewer fields are dropped silently
}

// ReaderStats counts what the reader saw, for logging and metrics
type ReaderStats struct {
	Rows      int // Data rows read, header excluded
	Short     int // Rows dropped for having fewer than MinFields fields
	Malformed int // Rows the CSV decoder rejected
}

// Row is one raw CSV record
type Row struct {
	Line   int // 1-based physical line where the record starts
	Fields []string
}

// Field returns the field at idx, or an empty string when the row is too short
func (r Row) Field(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return r.Fields[idx]
}

// Reader streams rows out of a scanner CSV export
type Reader struct {
	closer io.Closer
	csv    *csv.Reader
	opts   ReaderOptions
	stats  ReaderStats
	header []string
	closed bool
}

// Open opens a CSV file for streaming
func Open(path string, opts ReaderOptions) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	r := NewReader(file, opts)
	r.closer = file
	return r, nil
}

// NewReader wraps an io.Reader; the caller keeps ownership of src
func NewReader(src io.Reader, opts ReaderOptions) *Reader {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	return &Reader{
		csv:  cr,
		opts: opts,
	}
}

// Rows returns a single-use sequence of rows with at least MinFields fields.
// A *RowError is yielded for records the CSV decoder rejects and the sequence
// continues if the caller keeps ranging. The underlying file is closed when
// the sequence ends or the caller stops early.
func (r *Reader) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		defer r.Close()

		if r.closed {
			return
		}

		if r.opts.HasHeader && r.header == nil {
			header, err := r.csv.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Row{Line: 1}, &RowError{Line: 1, Err: fmt.Errorf("failed to read CSV header: %w", err)})
				return
			}
			r.header = header
		}

		for {
			fields, err := r.csv.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var perr *csv.ParseError
				if !errors.As(err, &perr) {
					yield(Row{}, fmt.Errorf("failed to read CSV row: %w", err))
					return
				}
				r.stats.Malformed++
				if !yield(Row{Line: perr.StartLine}, &RowError{Line: perr.StartLine, Err: err}) {
					return
				}
				continue
			}

			r.stats.Rows++
			if len(fields) < r.opts.MinFields {
				r.stats.Short++
				continue
			}

			line, _ := r.csv.FieldPos(0)
			if !yield(Row{Line: line, Fields: fields}, nil) {
				return
			}
		}
	}
}

// Header returns the discarded header row, if one was read
func (r *Reader) Header() []string {
	return r.header
}

// Stats returns the counters accumulated so far
func (r *Reader) Stats() ReaderStats {
	return r.stats
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
