package processor

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Table is the first sheet of a workbook split into header and data rows.
// Data rows are padded to the header width.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// SpreadsheetCodec handles xlsx workbooks. The payload is the workbook's
// bytes, persisted unmodified; only Summarize looks inside.
type SpreadsheetCodec struct{}

func (SpreadsheetCodec) Decode(data []byte) ([]byte, error) {
	return data, nil
}

func (SpreadsheetCodec) Encode(data []byte) ([]byte, error) {
	return data, nil
}

func (SpreadsheetCodec) Summarize(data []byte) (*report.Report, error) {
	table, err := ReadTable(data)
	if err != nil {
		return nil, err
	}

	r := report.New("Spreadsheet summary").
		Add("Sheet", table.Sheet).
		Add("Rows", len(table.Rows)).
		Add("Columns", len(table.Header)).
		Add("Column names", table.Header)

	numeric := 0
	if len(table.Rows) > 0 {
		for i, name := range table.Header {
			values, ok := table.NumericColumn(i)
			if !ok {
				continue
			}
			d, _ := DescribeValues(values)
			numeric++
			r.Section("Statistics for "+name).
				Add("count", d.Count).
				Add("mean", d.Mean).
				Add("std", d.Std).
				Add("min", d.Min).
				Add("25%", d.Q1).
				Add("50%", d.Q2).
				Add("75%", d.Q3).
				Add("max", d.Max)
		}
	}
	if numeric == 0 {
		r.Add("Numeric statistics", report.NotApplicable)
	}
	return r, nil
}

// ReadTable loads the first sheet of an xlsx workbook.
func ReadTable(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Warnw("failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	var body [][]string
	width := len(rows[0])
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		width = max(width, len(row))
		body = append(body, row)
	}

	// Cells past the header row get unnamed columns instead of being dropped.
	header := make([]string, width)
	for i := range header {
		name := ""
		if i < len(rows[0]) {
			name = strings.TrimSpace(rows[0][i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = name
	}

	for i, row := range body {
		padded := make([]string, width)
		copy(padded, row)
		body[i] = padded
	}

	return &Table{Sheet: sheet, Header: header, Rows: body}, nil
}

// NumericColumn returns the non-empty values of column i when every one of
// them parses as a number and there is at least one.
func (t *Table) NumericColumn(i int) ([]float64, bool) {
	var values []float64
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, len(values) > 0
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
