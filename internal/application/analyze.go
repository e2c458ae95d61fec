package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sawpanic/scanreport/internal/analysis"
	"github.com/sawpanic/scanreport/internal/config"
	"github.com/sawpanic/scanreport/internal/data/scanlog"
	applog "github.com/sawpanic/scanreport/internal/log"
	"github.com/sawpanic/scanreport/internal/metrics"
	"github.com/sawpanic/scanreport/internal/report"
)

const progressInterval = 2 * time.Second

// RunOptions carries the presentation settings resolved by the CLI
type RunOptions struct {
	Color bool // Emit ANSI colors in the report
}

// Result describes a completed analysis run
type Result struct {
	RunID   string
	Summary *analysis.Summary
	Reader  scanlog.ReaderStats
	Invalid int // Rows dropped by the parser under skip-invalid
}

// Run executes the read, aggregate and report phases for one CSV file.
// Under fail-fast nothing is written to out when any row fails.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts RunOptions, logger zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()
	logger = applog.ForRun(logger, runID, cfg.File)

	var runMetrics *metrics.RunMetrics
	if cfg.MetricsOut != "" {
		runMetrics = metrics.NewRunMetrics(runID, cfg.Buckets)
	}

	logger.Info().
		Str("profile", cfg.Profile).
		Str("policy", cfg.FailurePolicy.String()).
		Str("layout", cfg.Layout.String()).
		Msg("Starting scan log analysis")

	result, err := aggregate(ctx, cfg, runMetrics, logger)
	if err != nil {
		return nil, err
	}
	result.RunID = runID

	console := report.NewConsole(out, report.Options{
		Layout:       cfg.Layout,
		Color:        opts.Color,
		PairsPerScan: cfg.PairsPerScan,
	})
	if err := console.Render(result.Summary); err != nil {
		return nil, err
	}

	if runMetrics != nil {
		runMetrics.ObserveSummary(result.Summary, time.Since(start))
		if err := runMetrics.WriteTextfile(cfg.MetricsOut); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.MetricsOut).Msg("Metrics textfile written")
	}

	logger.Info().
		Int("records", result.Summary.TotalScans).
		Int("opportunities", result.Summary.Opportunities).
		Int("anomalies", result.Summary.AnomalyCount).
		Dur("duration", time.Since(start)).
		Msg("Analysis completed")

	return result, nil
}

// aggregate runs the single read pass and finalizes the summary
func aggregate(ctx context.Context, cfg *config.Config, runMetrics *metrics.RunMetrics, logger zerolog.Logger) (*Result, error) {
	reader, err := scanlog.Open(cfg.File, scanlog.ReaderOptions{
		HasHeader: cfg.HasHeader,
		MinFields: cfg.MinFields,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	parser := scanlog.NewParser(cfg.FailurePolicy, cfg.Columns)
	agg := analysis.NewAggregator(analysis.OptionsFromConfig(cfg))
	progress := applog.NewRowProgress(logger, "reading", progressInterval)
	failFast := cfg.FailurePolicy == config.PolicyFailFast
	invalid := 0

	for row, rowErr := range reader.Rows() {
		if err := ctx.Err(); err != nil {
			progress.Fail(err)
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}

		var rec scanlog.ScanRecord
		if rowErr == nil {
			rec, rowErr = parser.Parse(row)
			if rowErr != nil {
				invalid++
			}
		}

		if rowErr != nil {
			var re *scanlog.RowError
			if failFast || !errors.As(rowErr, &re) {
				progress.Fail(rowErr)
				return nil, fmt.Errorf("failed to read scan log: %w", rowErr)
			}
			logger.Debug().Err(rowErr).Int("line", re.Line).Msg("Skipping invalid row")
			progress.Skip()
			continue
		}

		agg.Add(rec)
		progress.Accept()
		if runMetrics != nil {
			runMetrics.ObserveRecord(rec.SpreadPercent, rec.IsOpportunity())
		}
	}

	stats := reader.Stats()
	progress.Finish()
	if header := reader.Header(); header != nil {
		logger.Debug().Int("header_fields", len(header)).Str("first", header[0]).Msg("Header row skipped")
	}
	if stats.Short > 0 {
		logger.Debug().Int("short", stats.Short).Int("min_fields", cfg.MinFields).Msg("Dropped short rows")
	}
	if runMetrics != nil {
		runMetrics.ObserveRejected(metrics.OutcomeShort, stats.Short)
		runMetrics.ObserveRejected(metrics.OutcomeMalformed, stats.Malformed)
		runMetrics.ObserveRejected(metrics.OutcomeInvalid, invalid)
	}

	if failFast && agg.Len() == 0 {
		return nil, analysis.ErrNoRecords
	}

	return &Result{
		Summary: agg.Finalize(),
		Reader:  stats,
		Invalid: invalid,
	}, nil
}
