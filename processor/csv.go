package processor

import (
	"bytes"
	"encoding/csv"

	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cnosuke/fetch-analytics/writer"
	"github.com/cockroachdb/errors"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// CSVCodec handles comma-delimited files whose first row is a header.
type CSVCodec struct{}

func (CSVCodec) Decode(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV")
	}
	return rows, nil
}

func (CSVCodec) Encode(rows [][]string) ([]byte, error) {
	return writer.EncodeCSV(rows)
}

func (CSVCodec) Summarize(rows [][]string) (*report.Report, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header, data := rows[0], rows[1:]

	present := make([]int, len(header))
	for _, row := range data {
		for i := range header {
			if i < len(row) && row[i] != "" {
				present[i]++
			}
		}
	}

	r := report.New("CSV summary").
		Add("Total rows", len(data)).
		Section("Column entries")
	for i, name := range header {
		r.AddUnit(name, present[i], "entries")
	}
	return r, nil
}
