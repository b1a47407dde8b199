package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := New("CSV summary").
		Add("Total rows", 2).
		Section("Column entries").
		AddUnit("name", 2, "entries").
		AddUnit("score", 1, "entries")

	expected := "CSV summary\n" +
		"===========\n" +
		"Total rows: 2\n" +
		"\n" +
		"Column entries:\n" +
		"name: 2 entries\n" +
		"score: 1 entries\n"
	assert.Equal(t, expected, r.Render())
	assert.Equal(t, expected, r.String())
}

func TestLookup(t *testing.T) {
	r := New("").
		Add("Total", 3).
		Section("A").
		Add("x", 1).
		Section("B").
		Add("x", 2)

	v, ok := r.Lookup("Total")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = r.LookupIn("B", "x")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = r.Lookup("A")
	assert.False(t, ok, "sections are not values")

	_, ok = r.LookupIn("C", "x")
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"int", 42, "42"},
		{"string", "abc", "abc"},
		{"float trimmed", 2.5, "2.5"},
		{"float rounded", 1.0 / 3.0, "0.3333"},
		{"float whole", 10.0, "10"},
		{"nan", math.NaN(), NotApplicable},
		{"inf", math.Inf(1), NotApplicable},
		{"strings", []string{"a", "b"}, "a, b"},
		{"nil", nil, ""},
		{"negative zero", -0.00001, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.in))
		})
	}
}
