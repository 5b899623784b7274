package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export <archive.zip>",
	Short: "Export profiles to a zip archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <archive.zip>",
	Short: "Import profiles from a zip archive",
	Long:  "Extracts every file from the archive into the profile directory, overwriting name collisions, then rescans.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	if err := env.store.ExportZip(args[0]); err != nil {
		if errors.Is(err, app.ErrNothingToExport) {
			return fmt.Errorf("nothing to export from %s", env.store.Dir())
		}
		return err
	}
	fmt.Printf("%sexported%s %s\n", colorGreen, colorReset, args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := env.store.ImportZip(args[0]); err != nil {
		return err
	}
	loaded, _, err := env.store.Initialize()
	if err != nil {
		return err
	}
	fmt.Printf("%simported%s %s (%d profile(s) now loaded)\n", colorGreen, colorReset, args[0], loaded)
	return nil
}
