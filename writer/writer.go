// Package writer persists fetched payloads into an existing folder.
// Every write is a full overwrite; folders are never created implicitly.
package writer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cnosuke/fetch-analytics/types"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// JSONIndent is the indentation used for pretty-printed JSON files.
const JSONIndent = "    "

// WriteText writes a UTF-8 string.
func WriteText(folder, fileName, data string) (string, error) {
	return WriteBytes(folder, fileName, []byte(data))
}

// WriteBytes writes opaque bytes.
func WriteBytes(folder, fileName string, data []byte) (string, error) {
	path := filepath.Join(folder, fileName)

	info, err := os.Stat(folder)
	if err != nil {
		return path, writeError(path, errors.Wrap(err, "folder is not accessible"))
	}
	if !info.IsDir() {
		return path, writeError(path, errors.Newf("%s is not a directory", folder))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, writeError(path, err)
	}

	zap.S().Infow("file written", "path", path, "bytes", len(data))
	return path, nil
}

// EncodeCSV serializes rows. Fields containing the delimiter, a quote or a
// newline are quoted, embedded quotes are doubled. A row holding a single
// empty field is written as `""` so it does not read back as a blank line.
func EncodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to encode CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to encode CSV")
	}
	return buf.Bytes(), nil
}

// EncodeJSON re-serializes value with object keys in document order and
// non-ASCII characters written literally, then pretty-prints it. A key
// repeated in an object keeps its first position and its last value.
func EncodeJSON(value gjson.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, value); err != nil {
		return nil, errors.Wrap(err, "failed to encode JSON")
	}
	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   JSONIndent,
		SortKeys: false,
	}), nil
}

func appendJSON(buf *bytes.Buffer, v gjson.Result) error {
	switch {
	case v.IsObject():
		var keys []string
		values := map[string]gjson.Result{}
		v.ForEach(func(key, val gjson.Result) bool {
			k := key.String()
			if _, ok := values[k]; !ok {
				keys = append(keys, k)
			}
			values[k] = val
			return true
		})
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, values[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case v.IsArray():
		buf.WriteByte('[')
		var err error
		first := true
		v.ForEach(func(_, val gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			err = appendJSON(buf, val)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte(']')
	case v.Type == gjson.String:
		return appendString(buf, v.String())
	case v.Type == gjson.Null && v.Raw == "":
		buf.WriteString("null")
	default:
		// Numbers, booleans and null keep their source text.
		buf.WriteString(v.Raw)
	}
	return nil
}

// appendString writes s as a JSON string without escaping non-ASCII or HTML
// characters.
func appendString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func writeError(path string, err error) error {
	zap.S().Errorw("failed to write file", "path", path, "error", err)
	return types.NewError(types.KindWrite, "write", path, err)
}
