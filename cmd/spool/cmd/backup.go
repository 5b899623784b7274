package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, restore, and prune backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a timestamped backup archive",
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups, newest first",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <archive.zip>",
	Short: "Restore profiles from a backup archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupRestore,
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete backups beyond the retention limit",
	RunE:  runBackupPrune,
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
}

func (e *appEnv) backupService() *backup.Service {
	return backup.NewService(e.cfg.Backup.Dir, e.cfg.Backup.MaxBackups, e.logger)
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	extras := []string{filepath.Join(env.cfg.DataDir, "spool.db")}
	if env.cfg.Backup.IncludeLogs {
		extras = append(extras, env.cfg.LogDir)
	}

	path, err := env.backupService().Create(env.cfg.ProfileDir, extras...)
	if err != nil {
		return err
	}
	fmt.Printf("%sbackup written%s %s\n", colorGreen, colorReset, path)
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	backups, err := env.backupService().List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Printf("%sno backups found%s\n", colorGray, colorReset)
		return nil
	}

	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{
			b.Name,
			strconv.FormatInt(b.Size, 10),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Println(renderTable(
		[]string{"Archive", "Bytes", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := env.backupService().Restore(args[0], env.cfg.ProfileDir); err != nil {
		return err
	}
	loaded, _, err := env.store.Initialize()
	if err != nil {
		return err
	}
	fmt.Printf("%srestored%s %d profile(s) from %s\n", colorGreen, colorReset, loaded, args[0])
	return nil
}

func runBackupPrune(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	removed, err := env.backupService().Prune()
	if err != nil {
		return err
	}
	fmt.Printf("%spruned%s %d backup(s)\n", colorGreen, colorReset, removed)
	return nil
}
