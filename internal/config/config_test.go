package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printthreads/printthreads/pkg/adjust"
)

func createTempFile(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestLoad(t *testing.T) {
	t.Run("complete configuration", func(t *testing.T) {
		path := createTempFile(t, "printthreads-*.hcl", `
thread_data_dir = "/opt/fusion/ThreadData"
custom_dir      = "/home/me/threads"
file_marker     = "-printed"
name_suffix     = " (printed)"
log_level       = "debug"

adjustment {
  coefficient = 0.12
  ceiling     = 0.25
}
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/opt/fusion/ThreadData", cfg.ThreadDataDir)
		assert.Equal(t, "/home/me/threads", cfg.CustomDir)
		assert.Equal(t, "-printed", cfg.FileMarker)
		assert.Equal(t, " (printed)", cfg.NameSuffix)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, adjust.Model{Coefficient: 0.12, Ceiling: 0.25}, cfg.Adjustment.Model())
	})

	t.Run("defaults", func(t *testing.T) {
		path := createTempFile(t, "empty-*.hcl", "# nothing set\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, "-3Dprinting", cfg.FileMarker)
		assert.Equal(t, " for 3D printing", cfg.NameSuffix)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, adjust.DefaultModel, cfg.Adjustment.Model())
	})

	t.Run("partial adjustment block", func(t *testing.T) {
		path := createTempFile(t, "partial-*.hcl", `
adjustment {
  ceiling = 0.2
}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, adjust.DefaultCoefficient, cfg.Adjustment.Coefficient)
		assert.Equal(t, 0.2, cfg.Adjustment.Ceiling)
	})

	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := Load("/nonexistent/printthreads.hcl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file not found")
	})

	t.Run("invalid HCL syntax", func(t *testing.T) {
		path := createTempFile(t, "invalid-*.hcl", "adjustment {\n  this is not valid HCL\n}\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("negative coefficient", func(t *testing.T) {
		path := createTempFile(t, "negative-*.hcl", "adjustment {\n  coefficient = -0.1\n}\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("marker with separator", func(t *testing.T) {
		path := createTempFile(t, "marker-*.hcl", `file_marker = "out/x"`+"\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path separators")
	})

	t.Run("unknown log level", func(t *testing.T) {
		path := createTempFile(t, "level-*.hcl", `log_level = "loud"`+"\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown log level")
	})
}
