package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Folder)
	assert.Equal(t, 0, cfg.Fetch.Timeout)
	assert.Equal(t, "fetch-analytics/1.0", cfg.Fetch.UserAgent)
	assert.False(t, cfg.Pipelines.Text.Skip)
	assert.Equal(t, "example_text.txt", cfg.Pipelines.Text.File)
	assert.Equal(t, "application/json", cfg.Pipelines.JSON.ContentType)
	assert.Equal(t, []float64{4.8, 4.6, 4.9, 5.0, 4.7}, cfg.Profile.SatisfactionScores)
	assert.Equal(t, 2020, cfg.Setup.StartYear)
	assert.Len(t, cfg.Setup.Prefixed, 4)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yml")
	content := `
fetch:
  timeout: 15
data:
  folder: out
pipelines:
  csv:
    url: https://example.com/data.csv
    file: scores.csv
  spreadsheet:
    skip: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Fetch.Timeout)
	assert.Equal(t, "out", cfg.Data.Folder)
	assert.Equal(t, "https://example.com/data.csv", cfg.Pipelines.CSV.URL)
	assert.Equal(t, "scores.csv", cfg.Pipelines.CSV.File)
	assert.True(t, cfg.Pipelines.Spreadsheet.Skip)
	assert.Equal(t, "example_data.xlsx", cfg.Pipelines.Spreadsheet.File)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATA_FOLDER", "")
	os.Unsetenv("DATA_FOLDER")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATA_FOLDER=from-env\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Data.Folder)
}
