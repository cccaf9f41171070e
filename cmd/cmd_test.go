package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "name,systemcolorname,munsell,rgb,description\n" +
	"藍色,暗い青,2PB 3/5,#0D5661,藍で染めた色\n" +
	"朱色,あざやかな黄みの赤,6R 5.5/14,#EF454A,朱の顔料の色\n"

// run executes the root command with a private config and library.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		cfg := "log:\n  dir: " + filepath.Join(dir, "logs") + "\n" +
			"datasets:\n  - label: sample\n    source: " + filepath.Join(dir, "colors.json") + "\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", cfgPath, "--db", filepath.Join(dir, "lib.db")))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestJSONPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"colors.csv", "colors.json"},
		{"data/jis.CSV", "data/jis.json"},
		{"noext", "noext.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, jsonPath(tt.in))
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "colors.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))

	out, err := run(t, dir, "convert", csvPath, filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Converted")
	assert.Contains(t, out, "Skipping")

	data, err := os.ReadFile(filepath.Join(dir, "colors.json"))
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "藍色", records[0]["name"])
	assert.Contains(t, string(data), "暗い青", "non-ASCII is written unescaped")
}

func TestDatasetsLifecycle(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "colors.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o644))
	_, err := run(t, dir, "convert", csvPath)
	require.NoError(t, err)

	out, err := run(t, dir, "datasets", "import", "jis", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 records as db:jis")

	out, err = run(t, dir, "datasets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sample")
	assert.Contains(t, out, "db:jis")
	assert.Contains(t, out, "2 datasets")

	out, err = run(t, dir, "datasets", "validate", "db:jis", filepath.Join(dir, "colors.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ db:jis: 2 colors")

	out, err = run(t, dir, "datasets", "validate", filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
	assert.Contains(t, out, "Could not load the dataset")

	_, err = run(t, dir, "datasets", "remove", "jis")
	require.NoError(t, err)
	_, err = run(t, dir, "datasets", "remove", "jis")
	assert.ErrorContains(t, err, `no dataset named "jis"`)
}
