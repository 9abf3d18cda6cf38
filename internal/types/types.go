// =============================================================================
// Record Converter - Shared Types
// =============================================================================
//
// This package contains the in-memory record model shared by every codec and
// by the dispatcher. Keeping it in its own package avoids import cycles
// between:
//   - codec implementations (csvcodec, jsoncodec, xmlcodec, bincodec, xlsxcodec)
//   - validation
//   - converter
//
// FIELD ORDER:
//   A Record keeps its fields in insertion order. CSV, XML and XLSX writers
//   derive their columns from the first Record's field order, so the order is
//   part of the data, not an implementation detail.
//
// =============================================================================

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Field is a single named value inside a Record.
type Field struct {
	// Name is the field name (CSV header, JSON key, XML tag).
	Name string

	// Value is the field value. Text formats always produce strings.
	Value any
}

// Record represents one row or entity, as an ordered list of fields.
type Record []Field

// RecordSet is the ordered sequence of Records read from one file.
type RecordSet []Record

// NewRecord builds a Record from parallel name and value slices.
// Values beyond the last name are ignored; missing values are nil.
func NewRecord(names []string, values []any) Record {
	record := make(Record, 0, len(names))
	for i, name := range names {
		var value any
		if i < len(values) {
			value = values[i]
		}
		record.Set(name, value)
	}
	return record
}

// Set assigns a value to a field. An existing field keeps its position and
// only has its value replaced; a new field is appended.
func (r *Record) Set(name string, value any) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Name: name, Value: value})
}

// Get returns the value of a field and whether the field exists.
func (r Record) Get(name string) (any, bool) {
	for _, field := range r {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, field := range r {
		keys[i] = field.Name
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r)
}

// String renders the record as {name:value name:value}.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, field := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(field.Name)
		b.WriteByte(':')
		b.WriteString(FormatValue(field.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// String renders the set as [{...} {...}].
func (rs RecordSet) String() string {
	parts := make([]string, len(rs))
	for i, record := range rs {
		parts[i] = record.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// =============================================================================
// VALUE FORMATTING
// =============================================================================

// FormatValue renders a field value as plain text.
//
// RETURNS:
//   - "" for nil.
//   - The string itself for string and json.Number values.
//   - fmt's default formatting for anything else.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
