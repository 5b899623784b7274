package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.ProfileDir)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 200, cfg.CacheSize)
	assert.Equal(t, 10, cfg.Backup.MaxBackups)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesLayeredOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
profile_dir = "/srv/fdm"
cache_size = 50
log_level = "debug"

[backup]
max_backups = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/fdm", cfg.ProfileDir)
	assert.Equal(t, 50, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Backup.MaxBackups)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().DataDir, cfg.DataDir)
	assert.Equal(t, Default().Backup.Dir, cfg.Backup.Dir)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("profile_dir = [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ProfileDir = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.CacheSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Backup.MaxBackups = -1
	assert.Error(t, cfg.Validate())
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("cache_size = -5"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		ProfileDir: filepath.Join(base, "fdm"),
		DataDir:    filepath.Join(base, "data"),
		LogDir:     filepath.Join(base, "logs"),
		CacheSize:  10,
		Backup:     Backup{Dir: filepath.Join(base, "backups")},
	}
	require.NoError(t, cfg.EnsureDirs())
	for _, dir := range []string{cfg.ProfileDir, cfg.DataDir, cfg.LogDir, cfg.Backup.Dir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
