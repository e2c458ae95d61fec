package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "config [file]",
		Short: "Print the effective configuration as YAML",
		Long: `Config resolves profile defaults, the YAML config file, SCANREPORT_* environment
variables and flags exactly like analyze does, then prints the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), args, opts)
			if err != nil {
				return err
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), string(data)); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			if err := cfg.Validate(); err != nil {
				log.Warn().Err(err).Msg("Effective configuration cannot run an analysis")
			}
			return nil
		},
	}

	addAnalyzeFlags(cmd.Flags(), opts)

	return cmd
}
