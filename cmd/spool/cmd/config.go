package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	fmt.Printf("%s# %s%s\n%s", colorGray, path, colorReset, out)
	return nil
}
