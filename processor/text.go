package processor

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cnosuke/fetch-analytics/report"
	"go.uber.org/zap"
)

// WordCount is one row of a frequency table.
type WordCount struct {
	Word  string
	Count int
}

// TextCodec handles plain UTF-8 text.
type TextCodec struct{}

func (TextCodec) Decode(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}

func (TextCodec) Encode(text string) ([]byte, error) {
	return []byte(text), nil
}

func (TextCodec) Summarize(text string) (*report.Report, error) {
	lines := Lines(text)
	zap.S().Debugw("text line statistics",
		"total_lines", lines.Total,
		"longest_line", lines.Longest,
		"shortest_line", lines.Shortest)

	tokens := Tokenize(text)
	freq := WordFrequencies(tokens)

	r := report.New("Text summary").
		Add("Total words", len(tokens)).
		Add("Unique words", len(freq)).
		Section("Word frequencies")
	for _, wc := range freq {
		r.Add(wc.Word, wc.Count)
	}
	return r, nil
}

// Tokenize lowercases text and returns its maximal runs of word characters
// (letters, numbers and underscore).
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordChar(r)
	})
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// WordFrequencies counts tokens, ordered by descending count with ties kept
// in first-seen order.
func WordFrequencies(tokens []string) []WordCount {
	index := make(map[string]int, len(tokens))
	var freq []WordCount
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			freq[i].Count++
			continue
		}
		index[tok] = len(freq)
		freq = append(freq, WordCount{Word: tok, Count: 1})
	}
	slices.SortStableFunc(freq, func(a, b WordCount) int {
		return b.Count - a.Count
	})
	return freq
}

// LineStats describes the lines of a text. Lines are split on "\n" only, so
// a trailing newline yields a final empty line.
type LineStats struct {
	Total    int
	Longest  string
	Shortest string
}

// Lines returns the line count and the first longest and first shortest
// line, measured in characters.
func Lines(text string) LineStats {
	lines := strings.Split(text, "\n")
	stats := LineStats{Total: len(lines), Longest: lines[0], Shortest: lines[0]}
	longest, shortest := utf8.RuneCountInString(lines[0]), utf8.RuneCountInString(lines[0])
	for _, line := range lines[1:] {
		n := utf8.RuneCountInString(line)
		if n > longest {
			longest, stats.Longest = n, line
		}
		if n < shortest {
			shortest, stats.Shortest = n, line
		}
	}
	return stats
}
