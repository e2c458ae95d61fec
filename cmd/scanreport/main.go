package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "scanreport"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", appName)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Statistical report over arbitrage scanner CSV exports",
		Version: version,
		Long: `scanreport reads the CSV telemetry written by the arbitrage scanner and
prints a console report: spread statistics, per-pair summaries, reject
reasons, the spread distribution, top spreads and unflagged high spreads.

Examples:
  scanreport analyze logs/scan.csv
  scanreport analyze --profile legacy --file logs/scan_4h.csv
  scanreport analyze logs/scan.csv --threshold 0.2 --top-k 50 --metrics-out /var/lib/node_exporter/scanreport.prom
  scanreport config --profile legacy`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
