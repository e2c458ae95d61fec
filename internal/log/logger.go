package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger: human-readable console output
// unless jsonOutput is set, at the given level.
func Setup(w io.Writer, level string, jsonOutput bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(lvl)

	if jsonOutput {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}
	return log.Logger, nil
}

// ForRun returns a child logger tagged with the run id and input file
func ForRun(base zerolog.Logger, runID, file string) zerolog.Logger {
	return base.With().Str("run_id", runID).Str("file", file).Logger()
}
