package log

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RowProgress reports read-pass progress through a logger. Progress lines
// are throttled so a large file does not flood stderr.
type RowProgress struct {
	logger    zerolog.Logger
	phase     string
	startTime time.Time
	throttle  *rate.Sometimes

	rows     int
	accepted int
	skipped  int
}

// NewRowProgress creates a progress reporter that logs at most once per interval
func NewRowProgress(logger zerolog.Logger, phase string, interval time.Duration) *RowProgress {
	return &RowProgress{
		logger:    logger,
		phase:     phase,
		startTime: time.Now(),
		throttle:  &rate.Sometimes{Interval: interval},
	}
}

// Accept records a row that entered the aggregates
func (p *RowProgress) Accept() {
	p.rows++
	p.accepted++
	p.tick()
}

// Skip records a row that was dropped
func (p *RowProgress) Skip() {
	p.rows++
	p.skipped++
	p.tick()
}

func (p *RowProgress) tick() {
	p.throttle.Do(func() {
		p.logger.Debug().
			Str("phase", p.phase).
			Int("rows", p.rows).
			Int("accepted", p.accepted).
			Int("skipped", p.skipped).
			Msg("Reading scan rows")
	})
}

// Finish logs the phase summary
func (p *RowProgress) Finish() {
	p.logger.Info().
		Str("phase", p.phase).
		Int("rows", p.rows).
		Int("accepted", p.accepted).
		Int("skipped", p.skipped).
		Dur("duration", time.Since(p.startTime)).
		Msg("Phase completed")
}

// Fail logs the phase failure
func (p *RowProgress) Fail(err error) {
	p.logger.Error().
		Err(err).
		Str("phase", p.phase).
		Int("rows", p.rows).
		Int("accepted", p.accepted).
		Dur("duration", time.Since(p.startTime)).
		Msg("Phase failed")
}
