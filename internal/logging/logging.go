// =============================================================================
// Record Converter - Logging
// =============================================================================
//
// This module builds the zap logger used by the command line tool.
//
// OUTPUTS:
//   - Console: human readable lines on stderr. Stdout is left alone because
//     converted records may be printed there.
//   - File (optional): JSON lines rotated by lumberjack when log.file is set.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ginjaninja78/record-converter/internal/config"
)

// Options adjusts how New builds the logger.
type Options struct {
	// Verbose forces the debug level regardless of the configured level.
	Verbose bool

	// Console receives the console output. Defaults to os.Stderr.
	Console io.Writer
}

// New builds a logger from cfg. The returned cleanup flushes the logger and
// closes the log file; call it once logging is done.
func New(cfg config.LogSettings, opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(console)), atomicLevel),
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = newRotator(cfg)
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), atomicLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, cleanup, nil
}

// newRotator returns the rotating writer behind the file core.
func newRotator(cfg config.LogSettings) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.CallerKey = ""
	return encoderConfig
}
