package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <terms...>",
	Short: "Search profiles by brand, material, or color",
	Long:  "All terms must match (AND semantics). A blank query lists everything.",
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	printMetaTable(env.store.Search(strings.Join(args, " ")))
	return nil
}
