// =============================================================================
// Record Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Record Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   converter <input_path> [<output_path>]  - Convert or print a record file
//   converter config                        - Print the effective configuration
//   converter version                       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Record model, format codecs and the dispatcher
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/record-converter/cmd"
)

func main() {
	cmd.Execute()
}
