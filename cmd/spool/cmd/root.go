package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/adapters/bbolt"
	"github.com/corey/spool/internal/app"
	"github.com/corey/spool/internal/config"
	"github.com/corey/spool/internal/logging"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "spool",
	Short: "spool — filament spool inventory manager",
	Long:  "Manage 3D-printing filament profiles: search, edit, price tracking, cost reports, and backups.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file path (default ~/.spool/config.toml)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// appEnv bundles the dependencies every profile command needs.
type appEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *app.Store
}

// newEnv loads config, builds the logger, and initializes the profile store.
func newEnv() (*appEnv, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		LogDir: cfg.LogDir,
	})
	if err != nil {
		return nil, err
	}

	store := app.NewStore(cfg.ProfileDir, cfg.CacheSize, logger)
	_, corrupted, err := store.Initialize()
	if err != nil {
		return nil, err
	}
	if corrupted > 0 {
		fmt.Fprintf(os.Stderr, "%swarning:%s skipped %d unreadable profile(s)\n",
			colorYellow, colorReset, corrupted)
	}
	return &appEnv{cfg: cfg, logger: logger, store: store}, nil
}

// acquireLock takes the single-instance lock. Mutating commands hold it so two
// concurrent invocations cannot interleave writes to the profile directory.
func acquireLock(cfg *config.Config) (*flock.Flock, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.DataDir, "spool.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another spool instance is running (lock: %s)", lock.Path())
	}
	return lock, nil
}

// openPriceStore opens the bbolt database that backs price and usage history.
func openPriceStore(cfg *config.Config) (*bbolt.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}
	return bbolt.NewStore(filepath.Join(cfg.DataDir, "spool.db"))
}
