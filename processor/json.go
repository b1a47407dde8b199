package processor

import (
	"github.com/cnosuke/fetch-analytics/report"
	"github.com/cnosuke/fetch-analytics/writer"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// JSONCodec handles a single JSON document.
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.New("invalid JSON document")
	}
	return gjson.ParseBytes(data), nil
}

func (JSONCodec) Encode(value gjson.Result) ([]byte, error) {
	return writer.EncodeJSON(value)
}

func (JSONCodec) Summarize(value gjson.Result) (*report.Report, error) {
	r := report.New("JSON summary").
		Add("Top-level type", jsonType(value))

	switch {
	case value.IsArray():
		items := value.Array()
		r.Add("Item count", len(items))
		if len(items) > 0 && items[0].IsObject() {
			r.Add("Keys", ObjectKeys(items[0]))
		}
	case value.IsObject():
		r.Add("Item count", len(ObjectKeys(value)))
	default:
		r.Add("Item count", 1)
	}
	return r, nil
}

// ObjectKeys returns the keys of a JSON object in document order. A key
// repeated in the document is listed once, at its first position.
func ObjectKeys(obj gjson.Result) []string {
	keys := []string{}
	seen := map[string]bool{}
	obj.ForEach(func(key, _ gjson.Result) bool {
		k := key.String()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return true
	})
	return keys
}

func jsonType(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	}
	switch v.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	}
	return "null"
}
