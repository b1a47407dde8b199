// Package report holds the human-readable summaries produced by processors.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotApplicable is rendered for values that cannot be computed.
const NotApplicable = "not applicable"

// Entry is one labelled line of a report. An entry with Section set renders
// as a heading for the entries that follow it.
type Entry struct {
	Label   string
	Value   any
	Unit    string
	Section bool
}

// Report is an ordered sequence of label/value pairs.
type Report struct {
	Title   string
	Entries []Entry
}

// New creates an empty report.
func New(title string) *Report {
	return &Report{Title: title}
}

// Add appends a label/value pair.
func (r *Report) Add(label string, value any) *Report {
	r.Entries = append(r.Entries, Entry{Label: label, Value: value})
	return r
}

// AddUnit appends a label/value pair rendered with a trailing unit, e.g. "2 entries".
func (r *Report) AddUnit(label string, value any, unit string) *Report {
	r.Entries = append(r.Entries, Entry{Label: label, Value: value, Unit: unit})
	return r
}

// Section starts a new titled block.
func (r *Report) Section(title string) *Report {
	r.Entries = append(r.Entries, Entry{Label: title, Section: true})
	return r
}

// Lookup returns the value of the first non-section entry with label.
func (r *Report) Lookup(label string) (any, bool) {
	for _, e := range r.Entries {
		if !e.Section && e.Label == label {
			return e.Value, true
		}
	}
	return nil, false
}

// LookupIn returns the value of label within the named section.
func (r *Report) LookupIn(section, label string) (any, bool) {
	inSection := false
	for _, e := range r.Entries {
		if e.Section {
			inSection = e.Label == section
			continue
		}
		if inSection && e.Label == label {
			return e.Value, true
		}
	}
	return nil, false
}

// Render formats the report as plain text, one "label: value" line per entry.
func (r *Report) Render() string {
	var b strings.Builder
	if r.Title != "" {
		b.WriteString(r.Title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", len(r.Title)))
		b.WriteString("\n")
	}
	for _, e := range r.Entries {
		if e.Section {
			b.WriteString("\n")
			b.WriteString(e.Label)
			b.WriteString(":\n")
			continue
		}
		b.WriteString(e.Label)
		b.WriteString(": ")
		b.WriteString(FormatValue(e.Value))
		if e.Unit != "" {
			b.WriteString(" ")
			b.WriteString(e.Unit)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Report) String() string {
	return r.Render()
}

// FormatValue renders a report value. Floats are shown with at most four
// decimals; NaN and infinities render as NotApplicable.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return NotApplicable
		}
		s := strconv.FormatFloat(x, 'f', 4, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		if s == "-0" {
			s = "0"
		}
		return s
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}
