package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summarizeCSV(t *testing.T, body string) (map[string]any, int) {
	t.Helper()
	codec := CSVCodec{}
	rows, err := codec.Decode([]byte(body))
	require.NoError(t, err)
	r, err := codec.Summarize(rows)
	require.NoError(t, err)

	total, ok := r.Lookup("Total rows")
	require.True(t, ok)

	columns := map[string]any{}
	inSection := false
	for _, e := range r.Entries {
		if e.Section {
			inSection = e.Label == "Column entries"
			continue
		}
		if inSection {
			columns[e.Label] = e.Value
		}
	}
	return columns, total.(int)
}

func TestCSVCodec_Scenario(t *testing.T) {
	codec := CSVCodec{}
	rows, err := codec.Decode([]byte("name,score\nAda,10\nLin,\n"))
	require.NoError(t, err)

	r, err := codec.Summarize(rows)
	require.NoError(t, err)

	expected := "CSV summary\n" +
		"===========\n" +
		"Total rows: 2\n" +
		"\n" +
		"Column entries:\n" +
		"name: 2 entries\n" +
		"score: 1 entries\n"
	assert.Equal(t, expected, r.Render())
}

func TestCSVCodec_Summarize(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		total   int
		columns map[string]any
	}{
		{
			name:    "header only",
			body:    "a,b,c\n",
			total:   0,
			columns: map[string]any{"a": 0, "b": 0, "c": 0},
		},
		{
			name:    "all empty column",
			body:    "a,b\n1,\n2,\n",
			total:   2,
			columns: map[string]any{"a": 2, "b": 0},
		},
		{
			name:    "quoted fields",
			body:    "a,b\n\"x, y\",\"\"\n\"multi\nline\",z\n",
			total:   2,
			columns: map[string]any{"a": 2, "b": 1},
		},
		{
			name:    "whitespace is present",
			body:    "a\n \n",
			total:   1,
			columns: map[string]any{"a": 1},
		},
		{
			name:    "ragged rows",
			body:    "a,b,c\n1\n1,2,3,4\n",
			total:   2,
			columns: map[string]any{"a": 2, "b": 1, "c": 1},
		},
		{
			name:    "byte order mark",
			body:    "\ufeffid,v\n1,2\n",
			total:   1,
			columns: map[string]any{"id": 1, "v": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, total := summarizeCSV(t, tt.body)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, tt.columns, columns)
		})
	}
}

func TestCSVCodec_NoRows(t *testing.T) {
	codec := CSVCodec{}
	rows, err := codec.Decode([]byte(""))
	require.NoError(t, err)

	_, err = codec.Summarize(rows)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestCSVCodec_DecodeMalformed(t *testing.T) {
	_, err := CSVCodec{}.Decode([]byte("a,b\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestCSVCodec_RoundTrip(t *testing.T) {
	codec := CSVCodec{}
	rows := [][]string{
		{"name", "note"},
		{"Ada", "has, comma"},
		{"Lin", ""},
		{"Bo", `quote "inside"`},
		{""},
		{"Cy", "last"},
	}

	data, err := codec.Encode(rows)
	require.NoError(t, err)
	decoded, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, rows, decoded)
	direct, err := codec.Summarize(rows)
	require.NoError(t, err)
	viaFile, err := codec.Summarize(decoded)
	require.NoError(t, err)
	assert.Equal(t, direct.Render(), viaFile.Render())
}

func TestCSVCodec_SingleEmptyFieldRowSurvivesFile(t *testing.T) {
	codec := CSVCodec{}
	rows, err := codec.Decode([]byte("a\n\"\"\nx\n"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}, {""}, {"x"}}, rows)

	data, err := codec.Encode(rows)
	require.NoError(t, err)
	_, total := summarizeCSV(t, string(data))

	assert.Equal(t, 2, total)
}
