// =============================================================================
// Record Converter - CSV Codec
// =============================================================================
//
// This module reads and writes comma separated files.
//
// READING:
//   - The first line is the header row; its tokens become field names.
//   - Every later line becomes one record, values taken positionally.
//   - Quoting follows RFC 4180: fields containing the delimiter, a quote or
//     a line break are quoted, and quotes inside are doubled. Lazy quotes are
//     rejected as malformed input.
//   - A leading UTF-8 byte order mark is ignored.
//   - Blank lines are skipped. Short rows are padded with empty values; rows
//     with more values than the header are malformed.
//
// WRITING:
//   - The header is taken from the first record's keys, in order.
//   - Every record is written in that column order (see validation.Shape).
//   - An empty record set produces an empty file.
//   - A row holding one empty value is written as "" so it is not read back
//     as a blank line.
//
// =============================================================================

package csvcodec

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/internal/validation"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// Extension is the file extension handled by this codec.
const Extension = "csv"

// byteOrderMark is written by spreadsheet exports at the start of the file.
var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

var _ codec.Handler = (*Codec)(nil)

// Codec is the CSV format handler.
type Codec struct {
	settings config.CSVSettings
	output   config.OutputSettings
}

// New creates a CSV codec.
func New(settings config.CSVSettings, output config.OutputSettings) *Codec {
	return &Codec{
		settings: settings,
		output:   output,
	}
}

// =============================================================================
// READING
// =============================================================================

// Read parses the CSV file at path.
func (c *Codec) Read(path string) (types.RecordSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, codec.IOError("open", path, err)
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	if prefix, _ := buffered.Peek(len(byteOrderMark)); bytes.Equal(prefix, byteOrderMark) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(buffered)
	c.configureReader(reader)

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return types.RecordSet{}, nil
	}
	if err != nil {
		return nil, readError(path, err)
	}

	records := types.RecordSet{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(path, err)
		}

		if len(row) > len(headers) {
			line, _ := reader.FieldPos(0)
			return nil, codec.DecodeError(path, fmt.Errorf("line %d has %d fields, header has %d", line, len(row), len(headers)))
		}

		values := make([]any, len(headers))
		for i := range headers {
			if i < len(row) {
				values[i] = row[i]
			} else {
				values[i] = ""
			}
		}
		records = append(records, types.NewRecord(headers, values))
	}

	return records, nil
}

// configureReader applies the codec settings to the CSV reader.
func (c *Codec) configureReader(reader *csv.Reader) {
	reader.Comma = c.settings.Comma()

	// Row length is checked against the header, not the previous row.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = false
	reader.ReuseRecord = false
}

// readError separates file system failures from malformed content.
func readError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return codec.DecodeError(path, err)
	}
	return codec.IOError("read", path, err)
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes rs as CSV to path.
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

// Encode renders rs as CSV bytes.
func (c *Codec) Encode(rs types.RecordSet) ([]byte, error) {
	if len(rs) == 0 {
		return []byte{}, nil
	}

	shape := validation.NewShape(rs, c.output.MissingFieldPolicy())
	rows, err := shape.ProjectAll(rs)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = c.settings.Comma()
	writer.UseCRLF = c.settings.UseCRLF

	if err := c.writeRow(writer, &buffer, shape.Columns()); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}
	for _, row := range rows {
		if err := c.writeRow(writer, &buffer, row); err != nil {
			return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}

	return buffer.Bytes(), nil
}

// writeRow writes one row. A row holding a single empty value is written as
// "" because csv.Writer would emit a blank line, which readers skip.
func (c *Codec) writeRow(writer *csv.Writer, buffer *bytes.Buffer, row []string) error {
	if len(row) != 1 || row[0] != "" {
		return writer.Write(row)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	buffer.WriteString(`""`)
	if c.settings.UseCRLF {
		buffer.WriteString("\r\n")
	} else {
		buffer.WriteString("\n")
	}
	return nil
}
