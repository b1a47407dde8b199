package types

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Format identifies one of the supported pipelines.
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatSpreadsheet
	FormatJSON
)

// Formats lists every format in the order the runner executes them.
var Formats = []Format{FormatText, FormatCSV, FormatSpreadsheet, FormatJSON}

var formatNames = map[Format]string{
	FormatText:        "text",
	FormatCSV:         "csv",
	FormatSpreadsheet: "spreadsheet",
	FormatJSON:        "json",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat accepts the canonical names plus a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "spreadsheet", "excel", "xlsx":
		return FormatSpreadsheet, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, errors.Newf("unknown format %q", s)
}
