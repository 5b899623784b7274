package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/ports"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all filament profiles",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	printMetaTable(env.store.GetAll())
	return nil
}

// printMetaTable renders a metadata map sorted by filename.
func printMetaTable(metas map[string]*ports.ProfileMeta) {
	if len(metas) == 0 {
		fmt.Printf("%sno profiles found%s\n", colorGray, colorReset)
		return
	}

	names := make([]string, 0, len(metas))
	for name := range metas {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		m := metas[name]
		rows = append(rows, []string{
			m.Filename,
			displayCase(m.Brand),
			displayCase(m.Material),
			displayCase(m.Color),
			formatDiameter(m.Diameter),
			formatUnix(m.LastModified),
		})
	}

	fmt.Println(renderTable(
		[]string{"File", "Brand", "Material", "Color", "Diameter", "Modified"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Printf("%s%d profile(s)%s\n", colorBold, len(names), colorReset)
}
