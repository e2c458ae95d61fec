package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sawpanic/scanreport/internal/application"
	"github.com/sawpanic/scanreport/internal/config"
	applog "github.com/sawpanic/scanreport/internal/log"
)

// analyzeOptions holds the raw flag values; only flags the user set
// override the loaded configuration.
type analyzeOptions struct {
	file       string
	configPath string
	profile    string
	policy     config.Policy
	layout     config.Layout
	header     bool
	threshold  float64
	topK       int
	color      string
	logLevel   string
	logJSON    bool
	metricsOut string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a scanner CSV export and print the report",
		Long: `Analyze runs a single pass over the CSV export and prints the report to stdout.

The legacy profile aborts on the first malformed row; the current profile
skips malformed rows and keeps going. Logs are written to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	addAnalyzeFlags(cmd.Flags(), opts)
	cmd.Flags().BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON lines instead of console output")

	return cmd
}

// addAnalyzeFlags registers the flags shared by analyze and config
func addAnalyzeFlags(fs *pflag.FlagSet, opts *analyzeOptions) {
	fs.StringVarP(&opts.file, "file", "f", "", "CSV file to analyze (or pass it as the first argument)")
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	fs.StringVarP(&opts.profile, "profile", "p", "", "Built-in profile: legacy or current (default current)")
	fs.Var(&opts.policy, "policy", "Row failure policy: fail-fast or skip-invalid")
	fs.Var(&opts.layout, "layout", "Report layout: legacy or current")
	fs.BoolVar(&opts.header, "header", true, "Input starts with a header row")
	fs.Float64Var(&opts.threshold, "threshold", config.DefaultOpportunityThreshold, "Opportunity threshold in percent (minSpreadPercent)")
	fs.IntVar(&opts.topK, "top-k", 20, "Number of rows in the top spreads table")
	fs.StringVar(&opts.color, "color", "auto", "Colored output: auto, always or never")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: trace, debug, info, warn or error")
	fs.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
}

// resolveConfig layers flag overrides on top of the loaded configuration
func resolveConfig(fs *pflag.FlagSet, args []string, opts *analyzeOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.profile)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.File = args[0]
	} else if fs.Changed("file") {
		cfg.File = opts.file
	}
	if fs.Changed("policy") {
		cfg.FailurePolicy = opts.policy
	}
	if fs.Changed("layout") {
		cfg.Layout = opts.layout
	}
	if fs.Changed("header") {
		cfg.HasHeader = opts.header
	}
	if fs.Changed("threshold") {
		cfg.OpportunityThreshold = opts.threshold
	}
	if fs.Changed("top-k") {
		cfg.TopK = opts.topK
	}
	if fs.Changed("color") {
		cfg.Color = opts.color
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if fs.Changed("metrics-out") {
		cfg.MetricsOut = opts.metricsOut
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg, err := resolveConfig(cmd.Flags(), args, opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := applog.Setup(cmd.ErrOrStderr(), cfg.LogLevel, opts.logJSON)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := application.Run(cmd.Context(), cfg, out, application.RunOptions{
		Color: useColor(cfg.Color, out),
	}, logger); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return nil
}

// useColor resolves the color mode; auto enables color only on a terminal
// and honours NO_COLOR.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
