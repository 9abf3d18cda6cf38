// =============================================================================
// Record Converter - JSON Codec
// =============================================================================
//
// This module reads and writes a JSON array of flat objects:
//
//   [
//       {
//           "name": "Alice",
//           "age": "30"
//       }
//   ]
//
// Decoding walks the document with a json-iterator Iterator so object keys
// keep their document order. Encoding drives a json-iterator Stream directly
// for the same reason; map based marshaling would sort or shuffle keys.
//
// Unlike CSV and XML, records may have different field sets.
//
// =============================================================================

package jsoncodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// Extension is the file extension handled by this codec.
const Extension = "json"

var _ codec.Handler = (*Codec)(nil)

// Codec is the JSON format handler.
type Codec struct {
	api    jsoniter.API
	output config.OutputSettings
}

// New creates a JSON codec.
func New(settings config.JSONSettings, output config.OutputSettings) *Codec {
	api := jsoniter.Config{
		IndentionStep:          settings.Indent,
		EscapeHTML:             false,
		UseNumber:              true,
		ValidateJsonRawMessage: true,
	}.Froze()

	return &Codec{
		api:    api,
		output: output,
	}
}

// =============================================================================
// READING
// =============================================================================

// Read parses the JSON file at path.
func (c *Codec) Read(path string) (types.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codec.IOError("read", path, err)
	}

	rs, err := c.Decode(data)
	if err != nil {
		return nil, codec.DecodeError(path, err)
	}
	return rs, nil
}

// Decode parses a JSON document into records.
func (c *Codec) Decode(data []byte) (types.RecordSet, error) {
	if !c.api.Valid(data) {
		return nil, errors.New("invalid JSON document")
	}

	iter := c.api.BorrowIterator(data)
	defer c.api.ReturnIterator(iter)

	if next := iter.WhatIsNext(); next != jsoniter.ArrayValue {
		return nil, fmt.Errorf("top-level value must be an array, got %s", valueTypeName(next))
	}

	records := types.RecordSet{}
	var decodeErr error
	iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
		record, err := readRecord(iter, len(records))
		if err != nil {
			decodeErr = err
			return false
		}
		records = append(records, record)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if iter.Error != nil {
		return nil, iter.Error
	}

	// Only whitespace may follow the array. Peeking at a real token leaves
	// Error unset; running out of input reports io.EOF.
	iter.WhatIsNext()
	if iter.Error == nil {
		return nil, errors.New("unexpected data after top-level array")
	}
	if !errors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}

	return records, nil
}

// readRecord reads one object element of the top-level array.
func readRecord(iter *jsoniter.Iterator, index int) (types.Record, error) {
	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		return nil, fmt.Errorf("element %d must be an object, got %s", index, valueTypeName(next))
	}

	record := types.Record{}
	var fieldErr error
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		value, err := readScalar(iter)
		if err != nil {
			fieldErr = fmt.Errorf("element %d field %q: %w", index, field, err)
			return false
		}
		record.Set(field, value)
		return true
	})
	if fieldErr != nil {
		return nil, fieldErr
	}
	return record, nil
}

// readScalar reads a string, number, boolean or null.
func readScalar(iter *jsoniter.Iterator) (any, error) {
	switch next := iter.WhatIsNext(); next {
	case jsoniter.StringValue:
		return iter.ReadString(), nil
	case jsoniter.NumberValue:
		return iter.ReadNumber(), nil
	case jsoniter.BoolValue:
		return iter.ReadBool(), nil
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil, nil
	default:
		return nil, fmt.Errorf("nested %s values are not supported", valueTypeName(next))
	}
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "nothing"
	}
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes rs as JSON to path.
func (c *Codec) Write(path string, rs types.RecordSet) error {
	data, err := c.Encode(rs)
	if err != nil {
		return err
	}

	if err := utils.WriteFile(path, data, c.output.Atomic); err != nil {
		return codec.IOError("write", path, err)
	}
	return nil
}

// Encode renders rs as an indented JSON array.
func (c *Codec) Encode(rs types.RecordSet) ([]byte, error) {
	var buffer bytes.Buffer
	stream := c.api.BorrowStream(&buffer)
	defer c.api.ReturnStream(stream)

	if len(rs) == 0 {
		stream.WriteEmptyArray()
	} else {
		stream.WriteArrayStart()
		for i, record := range rs {
			if i > 0 {
				stream.WriteMore()
			}
			writeRecord(stream, record)
		}
		stream.WriteArrayEnd()
	}

	if stream.Error != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, stream.Error)
	}
	if err := stream.Flush(); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}

	return buffer.Bytes(), nil
}

// writeRecord writes one record as an object in field order.
func writeRecord(stream *jsoniter.Stream, record types.Record) {
	if len(record) == 0 {
		stream.WriteEmptyObject()
		return
	}

	stream.WriteObjectStart()
	for i, field := range record {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(field.Name)
		if s, ok := field.Value.(string); ok {
			stream.WriteString(s)
		} else {
			stream.WriteVal(field.Value)
		}
	}
	stream.WriteObjectEnd()
}
