package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/adapters/fsnotify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the profile directory and rescan on changes",
	Long:  "Stays in the foreground, rescanning metadata whenever a profile file is written, created, renamed, or removed. Stop with Ctrl-C.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	err = watcher.Watch(env.cfg.ProfileDir, func(path string) {
		loaded, corrupted, err := env.store.Initialize()
		if err != nil {
			env.logger.Error("rescan failed", "error", err)
			return
		}
		fmt.Printf("%s%s%s changed, %d profile(s) loaded", colorCyan, filepath.Base(path), colorReset, loaded)
		if corrupted > 0 {
			fmt.Printf(" (%d unreadable)", corrupted)
		}
		fmt.Println()
	})
	if err != nil {
		return err
	}

	fmt.Printf("watching %s%s%s\n", colorBold, env.cfg.ProfileDir, colorReset)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
