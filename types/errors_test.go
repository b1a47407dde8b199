package types

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindHTTPStatus, Op: "fetch", Target: "http://example.com/a", StatusCode: http.StatusNotFound}
	assert.Equal(t, "fetch http://example.com/a: http status error 404", err.Error())

	cause := errors.New("permission denied")
	err = NewError(KindWrite, "write", "data/out.txt", cause)
	assert.Equal(t, "write data/out.txt: write error: permission denied", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestKindOf(t *testing.T) {
	base := NewError(KindMalformedInput, "process", "in.csv", errors.New("no header"))
	wrapped := errors.Wrap(base, "csv pipeline")

	assert.Equal(t, KindMalformedInput, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: "TXT", want: FormatText},
		{in: "csv", want: FormatCSV},
		{in: "excel", want: FormatSpreadsheet},
		{in: "xlsx", want: FormatSpreadsheet},
		{in: " json ", want: FormatJSON},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Format {
	t.Helper()
	f, err := ParseFormat(s)
	assert.NoError(t, err)
	return f
}
