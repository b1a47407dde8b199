package setup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRange(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "2021"), 0o755))

	res, err := ForRange(base, 2020, 2022)

	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2022"}, res.Created)
	for _, y := range []string{"2020", "2021", "2022"} {
		assert.DirExists(t, filepath.Join(base, y))
	}

	res, err = ForRange(base, 2020, 2022)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, "No new folders were created as they already exist.", res.Summary("folders"))
}

func TestForRange_InvalidRange(t *testing.T) {
	_, err := ForRange(t.TempDir(), 2025, 2020)
	assert.Error(t, err)
}

func TestFromList(t *testing.T) {
	base := t.TempDir()

	res := FromList(base, []string{"North America", "Europe"}, Options{Lowercase: true, Underscores: true})

	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"north_america", "europe"}, res.Created)
	assert.DirExists(t, filepath.Join(base, "north_america"))
	assert.Equal(t, "2 new folders created: north_america, europe", res.Summary("folders"))
}

func TestFromList_ContinuesAfterError(t *testing.T) {
	base := t.TempDir()

	res := FromList(base, []string{"missing/parent", "ok"}, Options{})

	assert.Len(t, res.Errors, 1)
	assert.Equal(t, []string{"ok"}, res.Created)
}

func TestPrefixed(t *testing.T) {
	base := t.TempDir()

	res, err := Prefixed(base, []string{"csv", "json"}, "data-")

	require.NoError(t, err)
	assert.Equal(t, []string{"data-csv", "data-json"}, res.Created)

	_, err = Prefixed(base, nil, "data-")
	assert.Error(t, err)
}

func TestPeriodically(t *testing.T) {
	base := t.TempDir()

	res, err := Periodically(context.Background(), base, 35*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(res.Created), 2)
	assert.Equal(t, "folder_1", res.Created[0])
	assert.DirExists(t, filepath.Join(base, "folder_1"))
}

func TestPeriodically_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Periodically(ctx, t.TempDir(), time.Minute, time.Minute)

	require.NoError(t, err)
	assert.Equal(t, []string{"folder_1"}, res.Created)
}

func TestEnsureBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureBase(base))
	assert.DirExists(t, base)
}
