// =============================================================================
// Record Converter - Binary Codec
// =============================================================================
//
// This module stores a value as a gob stream. The value travels inside an
// envelope whose single field is an interface, so the concrete type name is
// written with the payload and ReadValue hands back whatever was stored.
//
// Only registered types can be carried. The record model and the scalar,
// slice and map types produced by the other codecs are registered here;
// callers add their own with Register before writing or reading them.
//
// =============================================================================

package bincodec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// Extension is the file extension handled by this codec.
const Extension = "bin"

var _ codec.ValueHandler = (*Codec)(nil)

func init() {
	Register(types.RecordSet{})
	Register(types.Record{})
	Register(types.Field{})
	Register(json.Number(""))
	Register(map[string]any{})
	Register(map[string]string{})
	Register([]any{})
}

// Register makes the concrete type of v transportable. It panics when two
// different types use the same name, like gob.Register.
func Register(v any) {
	gob.Register(v)
}

// envelope wraps the stored value. A nil Value is stored as nothing.
type envelope struct {
	Value any
}

// Codec is the binary format handler.
type Codec struct {
	output config.OutputSettings
}

// New creates a binary codec.
func New(output config.OutputSettings) *Codec {
	return &Codec{output: output}
}

// =============================================================================
// READING
// =============================================================================

// Read loads the file at path and requires it to hold a record set.
func (c *Codec) Read(path string) (types.RecordSet, error) {
	v, err := c.ReadValue(path)
	if err != nil {
		return nil, err
	}

	switch rs := v.(type) {
	case types.RecordSet:
		if rs == nil {
			rs = types.RecordSet{}
		}
		return rs, nil
	case nil:
		return nil, codec.DecodeError(path, errors.New("payload is empty"))
	default:
		return nil, codec.DecodeError(path, fmt.Errorf("payload holds %T, not a record set", v))
	}
}

// ReadValue loads whatever value is stored in the file at path.
func (c *Codec) ReadValue(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codec.IOError("read", path, err)
	}

	v, err := Decode(data)
	if err != nil {
		return nil, codec.DecodeError(path, err)
	}
	return v, nil
}

// Decode restores the value held in a gob stream.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, err
	}
	return env.Value, nil
}

// =============================================================================
// WRITING
// =============================================================================

// Write stores rs at path.
func (c *Codec) Write(path string, rs types.RecordSet) error {
	if rs == nil {
		rs = types.RecordSet{}
	}
	return c.WriteValue(path, rs)
}

// WriteValue stores v at path. The file is left untouched if v holds a
// type that was never registered.
func (c *Codec) WriteValue(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	if err := utils.WriteFile(path, data, c.output.Atomic); err != nil {
		return codec.IOError("write", path, err)
	}
	return nil
}

// Encode renders v as a gob stream.
func Encode(v any) ([]byte, error) {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(envelope{Value: v}); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}
	return buffer.Bytes(), nil
}
