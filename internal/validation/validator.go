// =============================================================================
// Record Converter - Shape Validation
// =============================================================================
//
// Column oriented formats (CSV, XML, XLSX) have a single layout for the whole
// file. The layout is taken from the first record of the set and applied to
// every other record:
//   - Fields present in the layout are emitted in layout order.
//   - Fields a later record has but the layout lacks are dropped.
//   - Fields the layout has but a later record lacks are handled by the
//     configured MissingFieldPolicy.
//
// =============================================================================

package validation

import (
	"fmt"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/types"
)

// =============================================================================
// MISSING FIELD POLICY
// =============================================================================

// MissingFieldPolicy controls what happens when a record lacks a layout field.
type MissingFieldPolicy string

const (
	// MissingFieldError fails the write with a *codec.ShapeError.
	MissingFieldError MissingFieldPolicy = "error"

	// MissingFieldEmpty writes an empty value for the missing field.
	MissingFieldEmpty MissingFieldPolicy = "empty"
)

// ParseMissingFieldPolicy validates a policy name.
func ParseMissingFieldPolicy(name string) (MissingFieldPolicy, error) {
	switch policy := MissingFieldPolicy(name); policy {
	case MissingFieldError, MissingFieldEmpty:
		return policy, nil
	case "":
		return MissingFieldError, nil
	default:
		return "", fmt.Errorf("unknown missing field policy %q (want %q or %q)", name, MissingFieldError, MissingFieldEmpty)
	}
}

// =============================================================================
// SHAPE
// =============================================================================

// Shape is the column layout of a record set.
type Shape struct {
	columns []string
	policy  MissingFieldPolicy
}

// NewShape derives the layout from the first record of rs. An empty set has
// an empty layout.
func NewShape(rs types.RecordSet, policy MissingFieldPolicy) *Shape {
	shape := &Shape{policy: policy}
	if len(rs) > 0 {
		shape.columns = rs[0].Keys()
	}
	return shape
}

// Columns returns the layout field names in order.
func (s *Shape) Columns() []string {
	return s.columns
}

// Project returns the text values of record in layout order.
//
// PARAMETERS:
//   - index: The position of the record in its set, for error reporting.
//   - record: The record to project.
//
// RETURNS:
//   - One value per layout column.
//   - A *codec.ShapeError if a column is missing and the policy is "error".
func (s *Shape) Project(index int, record types.Record) ([]string, error) {
	values := make([]string, len(s.columns))
	for i, column := range s.columns {
		value, ok := record.Get(column)
		if !ok {
			if s.policy == MissingFieldEmpty {
				continue
			}
			return nil, &codec.ShapeError{Index: index, Field: column}
		}
		values[i] = types.FormatValue(value)
	}
	return values, nil
}

// ProjectAll projects every record of rs.
func (s *Shape) ProjectAll(rs types.RecordSet) ([][]string, error) {
	rows := make([][]string, 0, len(rs))
	for i, record := range rs {
		row, err := s.Project(i, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
