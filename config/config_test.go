package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matcha/report"
)

func writeProjectFile(t *testing.T, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "matcha.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadProject(t *testing.T) {
	t.Run("full project file", func(t *testing.T) {
		path := writeProjectFile(t, t.TempDir(), `
name = "analysis"
log-level = "warn"

[args]
rows = "100"
label = "run-1"
`)

		proj, err := LoadProject(path)
		require.NoError(t, err)
		assert.Equal(t, "analysis", proj.Name)
		assert.Equal(t, report.LogLevelWarn, proj.LogLevel)
		assert.Equal(t, map[string]string{"rows": "100", "label": "run-1"}, proj.Args)
	})

	t.Run("missing fields take defaults", func(t *testing.T) {
		path := writeProjectFile(t, t.TempDir(), `name = "minimal"`)

		proj, err := LoadProject(path)
		require.NoError(t, err)
		assert.Equal(t, "minimal", proj.Name)
		assert.Equal(t, report.LogLevelVerbose, proj.LogLevel)
		assert.Empty(t, proj.Args)
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		path := writeProjectFile(t, t.TempDir(), `log-level = "loud"`)

		_, err := LoadProject(path)
		assert.Error(t, err)
	})

	t.Run("malformed toml rejected", func(t *testing.T) {
		path := writeProjectFile(t, t.TempDir(), `name = [`)

		_, err := LoadProject(path)
		assert.Error(t, err)
	})
}

func TestFindProject(t *testing.T) {
	t.Run("finds the file in an ancestor directory", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, `name = "nested"`)

		scriptDir := filepath.Join(root, "scripts", "daily")
		require.NoError(t, os.MkdirAll(scriptDir, 0o755))

		proj, err := FindProject(filepath.Join(scriptDir, "report.mt"))
		require.NoError(t, err)
		assert.Equal(t, "nested", proj.Name)
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		proj, err := FindProject(filepath.Join(t.TempDir(), "lone.mt"))
		require.NoError(t, err)
		assert.Equal(t, DefaultProject().Name, proj.Name)
	})
}
