package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <filename>",
	Aliases: []string{"rm"},
	Short:   "Delete a filament profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if !env.store.Delete(args[0]) {
		return fmt.Errorf("could not delete %q", args[0])
	}
	fmt.Printf("%sdeleted%s %s\n", colorGreen, colorReset, args[0])
	return nil
}
