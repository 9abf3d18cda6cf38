package converter

import "errors"

var (
	// ErrArgument reports a wrong number of command line arguments.
	ErrArgument = errors.New("the converter needs an input path and an optional output path")

	// ErrUnrecognizedExtension reports a path whose extension has no handler.
	ErrUnrecognizedExtension = errors.New("unrecognized file extension")

	// ErrFileNotFound reports an input path that does not exist.
	ErrFileNotFound = errors.New("input file does not exist")
)
