package processor

import (
	"math"
	"testing"

	"github.com/cnosuke/fetch-analytics/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSpreadsheetCodec_Summarize(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"name", "score", "age"},
		{"Ada", 1, 30},
		{"Lin", 2, nil},
		{"Bo", 3, 40},
		{"Cy", 4, "unknown"},
	})
	codec := SpreadsheetCodec{}

	payload, err := codec.Decode(data)
	require.NoError(t, err)
	r, err := codec.Summarize(payload)
	require.NoError(t, err)

	rows, _ := r.Lookup("Rows")
	cols, _ := r.Lookup("Columns")
	names, _ := r.Lookup("Column names")
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"name", "score", "age"}, names)

	count, ok := r.LookupIn("Statistics for score", "count")
	require.True(t, ok)
	assert.Equal(t, 4, count)
	mean, _ := r.LookupIn("Statistics for score", "mean")
	assert.InDelta(t, 2.5, mean, 1e-9)
	q1, _ := r.LookupIn("Statistics for score", "25%")
	assert.InDelta(t, 1.75, q1, 1e-9)
	q3, _ := r.LookupIn("Statistics for score", "75%")
	assert.InDelta(t, 3.25, q3, 1e-9)

	_, ok = r.LookupIn("Statistics for name", "count")
	assert.False(t, ok, "text columns are excluded")
	_, ok = r.LookupIn("Statistics for age", "count")
	assert.False(t, ok, "mixed columns are excluded")

	_, ok = r.Lookup("Numeric statistics")
	assert.False(t, ok)
}

func TestSpreadsheetCodec_HeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]any{{"a", "b"}})

	r, err := SpreadsheetCodec{}.Summarize(data)
	require.NoError(t, err)

	rows, _ := r.Lookup("Rows")
	assert.Equal(t, 0, rows)
	cols, _ := r.Lookup("Columns")
	assert.Equal(t, 2, cols)
	stats, ok := r.Lookup("Numeric statistics")
	require.True(t, ok)
	assert.Equal(t, report.NotApplicable, stats)
}

func TestSpreadsheetCodec_SingleValueStd(t *testing.T) {
	data := buildWorkbook(t, [][]any{{"v"}, {5}})

	r, err := SpreadsheetCodec{}.Summarize(data)
	require.NoError(t, err)

	std, ok := r.LookupIn("Statistics for v", "std")
	require.True(t, ok)
	assert.True(t, math.IsNaN(std.(float64)))
	assert.Contains(t, r.Render(), "std: "+report.NotApplicable)
}

func TestSpreadsheetCodec_NotAWorkbook(t *testing.T) {
	_, err := SpreadsheetCodec{}.Summarize([]byte("just some text"))
	assert.Error(t, err)
}

func TestSpreadsheetCodec_EmptySheet(t *testing.T) {
	data := buildWorkbook(t, nil)

	_, err := SpreadsheetCodec{}.Summarize(data)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadTable(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"id", "", "v"},
		{1, "x", 2},
		{nil, nil, nil},
		{3},
	})

	table, err := ReadTable(data)

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Unnamed: 1", "v"}, table.Header)
	assert.Equal(t, [][]string{{"1", "x", "2"}, {"3", "", ""}}, table.Rows)
}

func TestReadTable_CellsPastHeader(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"a", "b"},
		{1, 2, 3, 4},
		{5, 6},
	})

	table, err := ReadTable(data)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "Unnamed: 2", "Unnamed: 3"}, table.Header)
	assert.Equal(t, [][]string{{"1", "2", "3", "4"}, {"5", "6", "", ""}}, table.Rows)

	r, err := SpreadsheetCodec{}.Summarize(data)
	require.NoError(t, err)
	cols, _ := r.Lookup("Columns")
	assert.Equal(t, 4, cols)
	count, ok := r.LookupIn("Statistics for Unnamed: 3", "count")
	require.True(t, ok)
	assert.Equal(t, 1, count)
}

func TestDescribeValues(t *testing.T) {
	d, ok := DescribeValues([]float64{4, 1, 3, 2})
	require.True(t, ok)

	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), d.Std, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.InDelta(t, 1.75, d.Q1, 1e-9)
	assert.InDelta(t, 2.5, d.Q2, 1e-9)
	assert.InDelta(t, 3.25, d.Q3, 1e-9)

	_, ok = DescribeValues(nil)
	assert.False(t, ok)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30}
	assert.Equal(t, 10.0, Quantile(sorted, 0))
	assert.Equal(t, 20.0, Quantile(sorted, 0.5))
	assert.Equal(t, 30.0, Quantile(sorted, 1))
	assert.Equal(t, 15.0, Quantile(sorted, 0.25))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}
