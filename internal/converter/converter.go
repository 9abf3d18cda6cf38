// =============================================================================
// Record Converter - Converter Module
// =============================================================================
//
// This module contains the dispatch logic. It runs one conversion from the
// input path to the output path, choosing handlers by file extension.
//
// CONVERSION PIPELINE:
//   1. Resolve the handler for the input extension
//   2. Check that the input file exists
//   3. Resolve the handler for the output extension, if any
//   4. Read the input file
//   5. Write the output file, or print what was read when there is no
//      usable output path
//
// Steps 1 to 3 fail before any file is opened.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one conversion.
type Result struct {
	// InputFile is the path that was read.
	InputFile string

	// OutputFile is the path that was written.
	// This is empty if nothing was written.
	OutputFile string

	// Printed is set when the input was printed instead of written.
	Printed bool

	// Success indicates whether the conversion completed.
	Success bool

	// Error contains the error if the conversion failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// RecordsRead is the number of records read from the input.
	// It stays 0 for binary payloads that are not record sets.
	RecordsRead int

	// InputBytes is the size of the input file.
	InputBytes int64

	// ProcessingTime is the time taken by the conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts a single file.
type Converter struct {
	inputPath  string
	outputPath string
	registry   *Registry
	settings   config.OutputSettings
	logger     *zap.Logger
	stdout     io.Writer
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithOutput sets where printed records go. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Converter) {
		c.stdout = w
	}
}

// New creates a Converter for one input and an optional output path.
//
// PARAMETERS:
//   - inputPath: The file to read.
//   - outputPath: The file to write, or "" to print the records.
//   - registry: The handlers to choose from.
//   - cfg: The application configuration.
func New(inputPath, outputPath string, registry *Registry, cfg *config.Config, opts ...Option) *Converter {
	c := &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		registry:   registry,
		settings:   cfg.Output,
		logger:     zap.NewNop(),
		stdout:     os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		InputFile: c.inputPath,
	}

	// =========================================================================
	// STEP 1: RESOLVE INPUT HANDLER
	// =========================================================================

	inputExt := utils.Extension(c.inputPath)
	input, ok := c.registry.Lookup(inputExt)
	if !ok {
		result.Error = c.extensionError(c.inputPath, inputExt)
		return result
	}

	// =========================================================================
	// STEP 2: CHECK INPUT EXISTS
	// =========================================================================

	if !utils.FileExists(c.inputPath) {
		result.Error = fmt.Errorf("%w: %s", ErrFileNotFound, c.inputPath)
		return result
	}
	if size, err := utils.GetFileSize(c.inputPath); err == nil {
		result.Stats.InputBytes = size
	}

	// =========================================================================
	// STEP 3: RESOLVE OUTPUT HANDLER
	// =========================================================================
	// A missing or unknown output extension means "print", unless strict
	// extension checking is enabled.

	var output codec.Handler
	if c.outputPath != "" {
		outputExt := utils.Extension(c.outputPath)
		h, ok := c.registry.Lookup(outputExt)
		switch {
		case ok:
			output = h
		case c.settings.StrictExtension:
			result.Error = c.extensionError(c.outputPath, outputExt)
			return result
		default:
			c.logger.Warn("Unrecognized output extension, printing records instead",
				zap.String("output", c.outputPath),
				zap.Strings("supported", c.registry.Extensions()))
		}
	}

	c.logger.Info("Converting file",
		zap.String("input", c.inputPath),
		zap.String("output", c.outputPath),
		zap.Int64("bytes", result.Stats.InputBytes))

	// =========================================================================
	// NO OUTPUT: PRINT INPUT
	// =========================================================================
	// Without an output handler the input is printed as read. Value handlers
	// print whatever they hold, even when it is not a record set.

	if output == nil {
		value, err := c.readForPrint(input)
		if err != nil {
			result.Error = err
			return result
		}
		if rs, ok := value.(types.RecordSet); ok {
			result.Stats.RecordsRead = len(rs)
		}

		if _, err := fmt.Fprintln(c.stdout, value); err != nil {
			result.Error = fmt.Errorf("failed to print records: %w", err)
			return result
		}

		c.logger.Debug("Printed input", zap.Int("records", result.Stats.RecordsRead))
		result.Printed = true
		return c.finish(result, startTime)
	}

	// =========================================================================
	// STEP 4: READ INPUT
	// =========================================================================

	rs, err := input.Read(c.inputPath)
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.RecordsRead = len(rs)
	c.logger.Debug("Read records", zap.Int("records", len(rs)))

	// =========================================================================
	// STEP 5: WRITE OUTPUT
	// =========================================================================

	if err := output.Write(c.outputPath, rs); err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = c.outputPath
	c.logger.Info("Wrote output", zap.String("output", c.outputPath), zap.Int("records", len(rs)))

	return c.finish(result, startTime)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readForPrint reads the input as a generic value.
func (c *Converter) readForPrint(input codec.Handler) (any, error) {
	if vh, ok := input.(codec.ValueHandler); ok {
		return vh.ReadValue(c.inputPath)
	}
	return input.Read(c.inputPath)
}

// extensionError describes a path whose extension has no handler.
func (c *Converter) extensionError(path, ext string) error {
	supported := strings.Join(c.registry.Extensions(), ", ")
	if ext == "" {
		return fmt.Errorf("%w: %s has no extension (supported: %s)", ErrUnrecognizedExtension, path, supported)
	}
	return fmt.Errorf("%w: %q in %s (supported: %s)", ErrUnrecognizedExtension, ext, path, supported)
}

func (c *Converter) finish(result Result, startTime time.Time) Result {
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}
