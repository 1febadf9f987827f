package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/vendapainel/vendapainel/internal/dataset"
)

// DecodeError indicates the payload could not be turned into a table:
// empty upload, corrupt workbook container or malformed text encoding.
// A decode never yields a partial table.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot decode file: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode turns an uploaded payload plus its filename into a raw table.
// The filename is used only for format sniffing: any name containing
// "xls" selects the spreadsheet decoder, everything else is read as
// UTF-8 comma-separated text.
func Decode(data []byte, filename string) (*dataset.Table, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	if strings.Contains(strings.ToLower(filename), "xls") {
		return decodeWorkbook(data)
	}
	return decodeCSV(data)
}

func decodeCSV(data []byte) (*dataset.Table, error) {
	if !utf8.Valid(data) {
		return nil, &DecodeError{Reason: "text payload is not valid UTF-8"}
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ','
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Reason: "file has no header row"}
		}
		return nil, &DecodeError{Reason: "malformed CSV header", Err: err}
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DecodeError{Reason: fmt.Sprintf("malformed CSV row %d", len(rows)+2), Err: err}
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return dataset.NewTable(header, rows)
}

// decodeWorkbook reads the first sheet of a spreadsheet payload. The
// modern zip container is tried first; on failure the legacy BIFF
// reader takes over, so a ".xls" name wrapping xlsx bytes still works.
func decodeWorkbook(data []byte) (*dataset.Table, error) {
	if rows, err := readXLSX(data); err == nil {
		return tableFromRows(rows)
	}
	rows, err := readLegacyXLS(data)
	if err != nil {
		return nil, &DecodeError{Reason: "corrupt or unsupported workbook", Err: err}
	}
	return tableFromRows(rows)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readLegacyXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("workbook has no sheets: %w", err)
	}
	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func tableFromRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, &DecodeError{Reason: "spreadsheet has no header row"}
	}
	return dataset.NewTable(rows[0], rows[1:])
}
