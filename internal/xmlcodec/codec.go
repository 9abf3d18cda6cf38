// =============================================================================
// Record Converter - XML Codec
// =============================================================================
//
// This module reads and writes two-level XML documents:
//
//   <root>
//   <person>
//   	<name>Alice</name>
//   	<age>30</age>
//   </person>
//   <person>
//   	<name>Bob</name>
//   	<age>25</age>
//   </person>
//   </root>
//
// READING:
//   Every child of the document element is a record, every grandchild a
//   field: tag name -> text content, in document order. The names of the
//   document element and of the record elements are not checked. Documents
//   declaring a non UTF-8 encoding such as ISO-8859-1 are transcoded.
//
// WRITING:
//   One <person> block is produced per record using the column layout of the
//   first record (see validation.Shape). Values are escaped, so text such as
//   "a < b & c" survives a round trip. Field names must be valid XML names.
//
// =============================================================================

package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/internal/validation"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// Extension is the file extension handled by this codec.
const Extension = "xml"

// fieldIndent prefixes every field line.
const fieldIndent = "\t"

var _ codec.Handler = (*Codec)(nil)

// Codec is the XML format handler.
type Codec struct {
	settings config.XMLSettings
	output   config.OutputSettings
}

// New creates an XML codec.
func New(settings config.XMLSettings, output config.OutputSettings) *Codec {
	return &Codec{
		settings: settings,
		output:   output,
	}
}

// =============================================================================
// READING
// =============================================================================

// Read parses the XML file at path.
func (c *Codec) Read(path string) (types.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codec.IOError("read", path, err)
	}

	rs, err := Decode(data)
	if err != nil {
		return nil, codec.DecodeError(path, err)
	}
	return rs, nil
}

// Element depths inside the document.
const (
	depthRoot   = 1
	depthRecord = 2
	depthField  = 3
)

// Decode parses an XML document into records.
func Decode(data []byte) (types.RecordSet, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		records   = types.RecordSet{}
		current   types.Record
		fieldName string
		text      strings.Builder
		depth     int
		seenRoot  bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case depthRoot:
				if seenRoot {
					return nil, fmt.Errorf("line %d: second document element <%s>", lineOf(decoder), t.Name.Local)
				}
				seenRoot = true
			case depthRecord:
				current = types.Record{}
			case depthField:
				fieldName = t.Name.Local
				text.Reset()
			}

		case xml.EndElement:
			switch depth {
			case depthField:
				current.Set(fieldName, text.String())
			case depthRecord:
				records = append(records, current)
			}
			depth--

		case xml.CharData:
			switch {
			case depth == depthField:
				text.Write(t)
			case depth == 0 && len(bytes.TrimSpace(t)) > 0:
				return nil, fmt.Errorf("line %d: text outside the document element", lineOf(decoder))
			}
		}
	}

	if !seenRoot {
		return nil, errors.New("no document element found")
	}

	return records, nil
}

func lineOf(decoder *xml.Decoder) int {
	line, _ := decoder.InputPos()
	return line
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes rs as XML to path.
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

// Encode renders rs as an XML document.
//
// GENERATION PROCESS:
//   1. Derive the column layout from the first record
//   2. Write the root opening tag
//   3. For each record write one record element with one line per column
//   4. Write the root closing tag (no trailing newline)
func (c *Codec) Encode(rs types.RecordSet) ([]byte, error) {
	root := c.settings.RootElement
	recordTag := c.settings.RecordElement
	for _, name := range []string{root, recordTag} {
		if !isValidName(name) {
			return nil, fmt.Errorf("%w: %q is not a valid XML element name", codec.ErrEncode, name)
		}
	}

	shape := validation.NewShape(rs, c.output.MissingFieldPolicy())
	for _, column := range shape.Columns() {
		if !isValidName(column) {
			return nil, fmt.Errorf("%w: field %q is not a valid XML element name", codec.ErrEncode, column)
		}
	}

	var buffer bytes.Buffer
	buffer.WriteString("<" + root + ">\n")

	for i, record := range rs {
		values, err := shape.Project(i, record)
		if err != nil {
			return nil, err
		}
		writeRecord(&buffer, recordTag, shape.Columns(), values)
	}

	buffer.WriteString("</" + root + ">")

	return buffer.Bytes(), nil
}

// writeRecord writes one record element.
func writeRecord(buffer *bytes.Buffer, tag string, columns, values []string) {
	buffer.WriteString("<" + tag + ">\n")
	for i, column := range columns {
		buffer.WriteString(fieldIndent)
		buffer.WriteString("<" + column + ">")
		buffer.WriteString(escapeXML(values[i]))
		buffer.WriteString("</" + column + ">\n")
	}
	buffer.WriteString("</" + tag + ">\n")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// escapeXML escapes special characters for XML text. Characters that XML
// cannot carry at all are replaced with U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			if !isXMLChar(r) {
				r = unicode.ReplacementChar
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r is allowed in an XML 1.0 document.
func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// isValidName reports whether name can be used as an element name.
// Namespace prefixes are not supported.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
