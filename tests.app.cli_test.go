package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig creates a production config using the sqlite driver
// inside a temporary folder and returns its path.
func writeTestConfig(t *testing.T, seedSource string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
is_production: true
log_folder: %q
storage:
  driver: sqlite
sqlite:
  filepath: %q
seed:
  source: %s
`, filepath.Join(dir, "logs"), filepath.Join(dir, "bookshelf.sqlite"), seedSource)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI executes the root command with the given arguments.
func runCLI(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	envFile := filepath.Join(filepath.Dir(configFile), "none.env")
	cmd.SetArgs(append([]string{"--config", configFile, "--env", envFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLISeedStatsList(t *testing.T) {
	config := writeTestConfig(t, SeedSourceNone)

	out, err := runCLI(t, config, "seed")
	require.NoError(t, err)
	assert.Equal(t, "6 books seeded\n", out)

	// an already populated collection is left as is.
	out, err = runCLI(t, config, "seed")
	require.NoError(t, err)
	assert.Equal(t, "0 books seeded\n", out)

	out, err = runCLI(t, config, "stats")
	require.NoError(t, err)
	var stats CollectionStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 6, stats.Total)

	out, err = runCLI(t, config, "stats", "--report")
	require.NoError(t, err)
	var report ReadingReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, DefaultUserSettings().ReadingGoal, report.ReadingGoal)

	out, err = runCLI(t, config, "list", "--sort", "title")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ID"), out)
	assert.Contains(t, out, "6 of 6 books")

	_, err = runCLI(t, config, "list", "--sort", "pages")
	assert.Error(t, err)
}

func TestCLIExportImport(t *testing.T) {
	config := writeTestConfig(t, SeedSourceNone)
	dir := filepath.Dir(config)

	input := filepath.Join(dir, "books.json")
	data, err := json.Marshal(sampleBooks())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(input, data, 0o644))

	out, err := runCLI(t, config, "import", "--input", input)
	require.NoError(t, err)
	assert.Equal(t, "4 books imported\n", out)

	t.Run("json export", func(t *testing.T) {
		out, err := runCLI(t, config, "export")
		require.NoError(t, err)
		var envelope DataEnvelope
		require.NoError(t, json.Unmarshal([]byte(out), &envelope))
		assert.Equal(t, sampleBooks(), envelope.Books)
		assert.Equal(t, DefaultUserSettings(), envelope.Settings)
	})

	t.Run("parquet round trip", func(t *testing.T) {
		output := filepath.Join(dir, "books.parquet")
		_, err := runCLI(t, config, "export", "--format", "parquet", "--output", output)
		require.NoError(t, err)

		books, err := ReadBooksParquetFile(output)
		require.NoError(t, err)
		assert.Equal(t, sampleBooks(), books)

		other := writeTestConfig(t, SeedSourceNone)
		out, err := runCLI(t, other, "import", "-i", output)
		require.NoError(t, err)
		assert.Equal(t, "4 books imported\n", out)

		out, err = runCLI(t, other, "list", "--status", "read")
		require.NoError(t, err)
		assert.Contains(t, out, "2 of 4 books")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := runCLI(t, config, "export", "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("invalid document", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"books":[{"title":""}]}`), 0o644))
		_, err := runCLI(t, config, "import", "--input", bad)
		assert.Error(t, err)

		out, err := runCLI(t, config, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "4 of 4 books")
	})

	t.Run("missing input flag", func(t *testing.T) {
		_, err := runCLI(t, config, "import")
		assert.Error(t, err)
	})
}

func TestCLISeedFromFile(t *testing.T) {
	config := writeTestConfig(t, SeedSourceDefault)
	seedFile := filepath.Join(filepath.Dir(config), "seed.json")
	require.NoError(t, os.WriteFile(seedFile, []byte(`[{"title":"T","author":"A","category":"Poetry"}]`), 0o644))

	out, err := runCLI(t, config, "seed", "--file", seedFile)
	require.NoError(t, err)
	assert.Equal(t, "1 books seeded\n", out)

	out, err = runCLI(t, config, "list", "--genre", "Poetry")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 1 books")
}

func TestCLIClear(t *testing.T) {
	config := writeTestConfig(t, SeedSourceNone)
	_, err := runCLI(t, config, "seed")
	require.NoError(t, err)

	out, err := runCLI(t, config, "clear")
	require.NoError(t, err)
	assert.Equal(t, "books removed\n", out)

	out, err = runCLI(t, config, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 0 books")

	out, err = runCLI(t, config, "clear", "--all")
	require.NoError(t, err)
	assert.Equal(t, "books and settings removed\n", out)
}
