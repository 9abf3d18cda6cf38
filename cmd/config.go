// =============================================================================
// Record Converter - Config Command
// =============================================================================
//
// This file defines the 'config' command, which prints the effective
// configuration (defaults, file and environment merged) as YAML.
//
// COMMAND USAGE:
//   converter config [--config file.yaml]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			data, err := cfg.YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
