// =============================================================================
// Record Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself; the subcommands are helpers.
//
// COBRA CLI STRUCTURE:
//   converter <input_path> [<output_path>]
//   ├── converter version
//   └── converter config
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-file)
//   2. Loading the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/converter"
)

// rootOptions holds the values of the persistent flags.
type rootOptions struct {
	// cfgFile is the optional YAML configuration file.
	cfgFile string

	// verbose enables debug logging.
	verbose bool

	// logFile overrides log.file from the configuration.
	logFile string
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "converter <input_path> [<output_path>]",
		Short: "Record Converter - Convert record files between CSV, JSON, XML, binary and XLSX",
		Long: `Record Converter reads a file of flat records and either prints the records
or writes them to another file. Formats are chosen by file extension:

  .csv   comma separated values with a header row
  .json  array of flat objects
  .xml   <root><person><field>value</field></person></root>
  .bin   gob encoded values
  .xlsx  Excel workbook, first sheet

When the output path is omitted, or its extension is not one of the above,
the records are printed to standard output.

Example Usage:
  converter people.csv people.json      # Convert CSV to JSON
  converter people.json                 # Print the records
  converter people.xml people.bin -v    # Convert with debug logging`,

		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"Path to a YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&opts.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&opts.logFile,
		"log-file",
		"",
		"Also write logs to this file (rotated)",
	)

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// validateArgs accepts an input path and an optional output path.
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w, got %d argument(s)", converter.ErrArgument, len(args))
	}
	return nil
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	return cfg, nil
}
