package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	require.NoError(t, InitLogger(false, path))
	zap.S().Infow("hello", "key", "value")
	zap.S().Debugw("hidden")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestInitLogger_Debug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	require.NoError(t, InitLogger(true, path))
	zap.S().Debugw("visible")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestInitLogger_BadPath(t *testing.T) {
	err := InitLogger(false, filepath.Join(t.TempDir(), "missing", "app.log"))
	assert.Error(t, err)
}
