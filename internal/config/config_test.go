package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `extension: .yaml
log_file: changes.log
time_layout: "2006-01-02T15:04:05"
strict_create: true
debounce: 75ms
event_buffer: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ".yaml", cfg.Extension)
	assert.Equal(t, "changes.log", cfg.LogFile)
	assert.Equal(t, "2006-01-02T15:04:05", cfg.TimeLayout)
	assert.True(t, cfg.StrictCreate)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 75*time.Millisecond, time.Duration(cfg.Debounce))
	assert.Equal(t, 10, cfg.EventBuffer)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "extension: [unterminated"},
		{"bad duration", "debounce: soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644))

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{Extension: ".json", ReadOnly: true, Debounce: Duration(time.Second)}

	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JOT_DIR=/from/dotenv\n"), 0644))

	t.Run("loads when unset", func(t *testing.T) {
		t.Setenv(EnvDir, "")
		require.NoError(t, os.Unsetenv(EnvDir))

		require.NoError(t, LoadEnv(envFile))
		assert.Equal(t, "/from/dotenv", DirFromEnv())
	})

	t.Run("process env wins", func(t *testing.T) {
		t.Setenv(EnvDir, "/from/process")

		require.NoError(t, LoadEnv(envFile))
		assert.Equal(t, "/from/process", DirFromEnv())
	})

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(dir, "nope.env")))
	})
}
