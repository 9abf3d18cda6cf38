// =============================================================================
// Record Converter - Convert
// =============================================================================
//
// This file runs one conversion for the root command.
//
// PROCESSING PIPELINE:
//   1. Load the configuration
//   2. Build the logger
//   3. Run the converter for the given paths
//
// Records are printed to the command's standard output; logs go to its
// standard error.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/record-converter/internal/converter"
	"github.com/ginjaninja78/record-converter/internal/logging"
)

func runConvert(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(cfg.Log, logging.Options{
		Verbose: opts.verbose,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer cleanup()

	inputPath := args[0]
	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}

	c := converter.New(inputPath, outputPath, converter.NewRegistry(cfg), cfg,
		converter.WithLogger(logger),
		converter.WithOutput(cmd.OutOrStdout()),
	)

	result := c.Run()
	if result.Error != nil {
		logger.Debug("Conversion failed", zap.String("input", inputPath), zap.Error(result.Error))
		return result.Error
	}

	logger.Debug("Conversion complete",
		zap.Int("records", result.Stats.RecordsRead),
		zap.Bool("printed", result.Printed),
		zap.Duration("elapsed", result.Stats.ProcessingTime))

	return nil
}
