// =============================================================================
// Record Converter - Format Handler Contract
// =============================================================================
//
// This package defines the contract every file format implements and the
// error kinds codecs report. The implementations live in their own packages:
//
//   csvcodec  - comma separated values
//   jsoncodec - JSON array of objects
//   xmlcodec  - <root><person>...</person></root> documents
//   bincodec  - gob encoded values
//   xlsxcodec - Excel workbooks
//
// Each Read and Write call opens exactly one file and closes it on every
// exit path. Handlers hold configuration only and keep no state between calls.
//
// =============================================================================

package codec

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/record-converter/internal/types"
)

// Handler reads and writes one file format.
type Handler interface {
	// Read opens path, parses the whole file and returns its records.
	Read(path string) (types.RecordSet, error)

	// Write creates or truncates path and writes rs in the handler's format.
	Write(path string, rs types.RecordSet) error
}

// ValueHandler is implemented by handlers that can carry values other than
// record sets.
type ValueHandler interface {
	Handler

	ReadValue(path string) (any, error)
	WriteValue(path string, v any) error
}

// =============================================================================
// ERROR KINDS
// =============================================================================

var (
	// ErrIO reports that a file could not be opened, read or written.
	ErrIO = errors.New("i/o error")

	// ErrDecode reports content that is not valid for the expected format.
	ErrDecode = errors.New("decode error")

	// ErrEncode reports a record that cannot be represented in the format.
	ErrEncode = errors.New("encode error")

	// ErrShapeMismatch reports a record that lacks a field required by the
	// column layout derived from the first record.
	ErrShapeMismatch = errors.New("record shape mismatch")
)

// ShapeError describes which record lacks which field.
type ShapeError struct {
	// Index is the zero-based position of the record in the set.
	Index int

	// Field is the name of the missing field.
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("record %d has no field %q", e.Index, e.Field)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// IOError wraps err as an ErrIO for the given operation on path.
func IOError(op, path string, err error) error {
	return fmt.Errorf("%w: failed to %s %s: %w", ErrIO, op, path, err)
}

// DecodeError wraps err as an ErrDecode for path.
func DecodeError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
}
