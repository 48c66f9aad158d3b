package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"nysecli/internal/app"
	"nysecli/internal/config"
	"nysecli/internal/operations"
	"nysecli/internal/testutil"
)

func TestMergeWithPrices(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NYSE_PATHS_BASE_DIR", dir)
	data := testutil.WriteDataset(t, filepath.Join(dir, "data"))
	out := filepath.Join(dir, "out")

	code := app.Main(operations.CommandMerge, []string{"-data", data, "-out", out, "-prices", "-clean"})
	assert.Equal(t, app.ExitOK, code)
	assert.FileExists(t, filepath.Join(out, config.MergedCSVFileName))
	assert.FileExists(t, filepath.Join(out, config.MergedPricesCSVFileName))
}
