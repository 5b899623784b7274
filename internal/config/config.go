// Package config loads and validates the application's TOML configuration.
// There is no module-global state: the composition root loads one Config
// and passes it down explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Backup contains backup archive settings.
type Backup struct {
	Dir         string `toml:"dir"`
	MaxBackups  int    `toml:"max_backups"`
	IncludeLogs bool   `toml:"include_logs"`
}

// Config is the full application configuration.
type Config struct {
	ProfileDir string `toml:"profile_dir"`
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	CacheSize  int    `toml:"cache_size"`
	Backup     Backup `toml:"backup"`
}

// Default returns the configuration used when no config file exists, rooted
// at ~/.spool.
func Default() *Config {
	base := baseDir()
	return &Config{
		ProfileDir: filepath.Join(base, "fdm"),
		DataDir:    filepath.Join(base, "data"),
		LogDir:     filepath.Join(base, "logs"),
		LogLevel:   "info",
		LogFormat:  "console",
		CacheSize:  200,
		Backup: Backup{
			Dir:         filepath.Join(base, "backups"),
			MaxBackups:  10,
			IncludeLogs: true,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.toml")
}

// Load reads the config at path, layered over defaults. An empty path means
// DefaultPath, and a missing file yields defaults — a fresh install needs
// no config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.ProfileDir == "" {
		return errors.New("profile_dir must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	if c.Backup.MaxBackups < 0 {
		return fmt.Errorf("backup.max_backups must not be negative, got %d", c.Backup.MaxBackups)
	}
	return nil
}

// EnsureDirs creates the directories the app writes to.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.ProfileDir, c.DataDir, c.LogDir, c.Backup.Dir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spool"
	}
	return filepath.Join(home, ".spool")
}
