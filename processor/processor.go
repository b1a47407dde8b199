// Package processor decodes persisted files and summarizes them. Each format
// has a codec with the same three operations: Decode parses file or response
// bytes into a payload, Encode produces the bytes to persist, and Summarize
// builds the report.
package processor

import (
	"github.com/cockroachdb/errors"
)

// ErrNoHeader is returned when a tabular input has no rows at all.
var ErrNoHeader = errors.New("no header row")
