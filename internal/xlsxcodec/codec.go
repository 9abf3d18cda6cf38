// =============================================================================
// Record Converter - XLSX Codec
// =============================================================================
//
// This module reads and writes Excel workbooks with the same layout rules as
// the CSV codec: the first row holds the field names and every later row is
// one record.
//
// READING:
//   Only the first sheet is read. Short rows are padded with empty values and
//   rows wider than the header are malformed. An empty row inside the sheet is
//   a record whose values are all empty. When the workbook defines the Records
//   name, trailing empty rows up to the end of that range are records too.
//
// WRITING:
//   Records are written to a single sheet named Sheet1, header first, in the
//   column layout of the first record (see validation.Shape). Every cell is
//   stored as text. The Records name is set to the written range so that
//   trailing records with only empty values survive a round trip.
//
// =============================================================================

package xlsxcodec

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
	"github.com/ginjaninja78/record-converter/internal/validation"
	"github.com/ginjaninja78/record-converter/pkg/utils"
)

// Extension is the file extension handled by this codec.
const Extension = "xlsx"

// SheetName is the sheet records are written to.
const SheetName = "Sheet1"

// RangeName is the defined name covering the header and every record row.
const RangeName = "Records"

var _ codec.Handler = (*Codec)(nil)

// Codec is the XLSX format handler.
type Codec struct {
	output config.OutputSettings
}

// New creates an XLSX codec.
func New(output config.OutputSettings) *Codec {
	return &Codec{output: output}
}

// =============================================================================
// READING
// =============================================================================

// Read parses the first sheet of the workbook at path.
func (c *Codec) Read(path string) (types.RecordSet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, codec.IOError("open", path, err)
		}
		return nil, codec.DecodeError(path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, codec.DecodeError(path, errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, codec.DecodeError(path, fmt.Errorf("failed to read rows of %s: %w", sheet, err))
	}

	if count := rangeRowCount(f, sheet); count > len(rows) {
		rows = append(rows, make([][]string, count-len(rows))...)
	}

	rs, err := recordsFromRows(rows)
	if err != nil {
		return nil, codec.DecodeError(path, fmt.Errorf("sheet %s: %w", sheet, err))
	}
	return rs, nil
}

// recordsFromRows turns a header row plus data rows into records.
func recordsFromRows(rows [][]string) (types.RecordSet, error) {
	records := types.RecordSet{}
	if len(rows) == 0 {
		return records, nil
	}

	headers := rows[0]
	for i, row := range rows[1:] {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d values, header has %d", i+2, len(row), len(headers))
		}

		values := make([]any, len(headers))
		for j := range headers {
			value := ""
			if j < len(row) {
				value = row[j]
			}
			values[j] = value
		}
		records = append(records, types.NewRecord(headers, values))
	}

	return records, nil
}

// rangeRowCount returns the last row of the Records range on sheet, or 0 when
// the workbook does not define one.
func rangeRowCount(f *excelize.File, sheet string) int {
	for _, name := range f.GetDefinedName() {
		if name.Name != RangeName {
			continue
		}

		target, area, ok := strings.Cut(name.RefersTo, "!")
		if !ok || strings.Trim(target, "'") != sheet {
			continue
		}
		if _, last, found := strings.Cut(area, ":"); found {
			area = last
		}

		_, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(area, "$", ""))
		if err != nil {
			continue
		}
		return row
	}
	return 0
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes rs as a workbook to path.
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

// Encode renders rs as an XLSX workbook.
func (c *Codec) Encode(rs types.RecordSet) ([]byte, error) {
	shape := validation.NewShape(rs, c.output.MissingFieldPolicy())
	rows, err := shape.ProjectAll(rs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if len(rs) > 0 {
		if err := setRow(f, 1, shape.Columns()); err != nil {
			return nil, err
		}
		for i, row := range rows {
			if err := setRow(f, i+2, row); err != nil {
				return nil, err
			}
		}
		if err := setRange(f, len(shape.Columns()), len(rs)+1); err != nil {
			return nil, err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}
	return buffer.Bytes(), nil
}

// setRow writes values into row number row (1-based) of the output sheet.
func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}

	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("%w: row %d: %w", codec.ErrEncode, row, err)
	}
	return nil
}

// setRange defines the Records name over the header and all record rows.
func setRange(f *excelize.File, columns, rows int) error {
	last, err := excelize.CoordinatesToCellName(max(columns, 1), rows, true)
	if err != nil {
		return fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}

	err = f.SetDefinedName(&excelize.DefinedName{
		Name:     RangeName,
		RefersTo: fmt.Sprintf("%s!$A$1:%s", SheetName, last),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", codec.ErrEncode, err)
	}
	return nil
}
