package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <filename>",
	Short: "Show the full record for one profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	rec := env.store.Get(args[0])
	if rec == nil {
		return fmt.Errorf("profile %q not found", args[0])
	}

	fmt.Printf("%s%s%s\n", colorBold, rec.DisplayName(), colorReset)
	fmt.Printf("  %sfile%s        %s\n", colorCyan, colorReset, rec.Filename)
	fmt.Printf("  %sbrand%s       %s\n", colorCyan, colorReset, displayCase(rec.Brand))
	fmt.Printf("  %smaterial%s    %s\n", colorCyan, colorReset, displayCase(rec.Material))
	fmt.Printf("  %scolor%s       %s\n", colorCyan, colorReset, displayCase(rec.Color))
	fmt.Printf("  %sdiameter%s    %s\n", colorCyan, colorReset, formatDiameter(rec.Diameter))
	if rec.Description != "" {
		fmt.Printf("  %sdescription%s %s\n", colorCyan, colorReset, rec.Description)
	}
	if rec.Density > 0 {
		fmt.Printf("  %sdensity%s     %.2f g/cm3\n", colorCyan, colorReset, rec.Density)
	}
	fmt.Printf("  %squantity%s    %s initial, %s used, %s remaining\n", colorCyan, colorReset,
		formatGrams(rec.InitialQuantity), formatGrams(rec.UsedQuantity), formatGrams(rec.RemainingGrams()))
	if rec.CostPerKg > 0 {
		fmt.Printf("  %scost%s        %.2f/kg (%.2f spent)\n", colorCyan, colorReset,
			rec.CostPerKg, rec.UsedCost())
	}
	if !rec.LastUsed.IsZero() {
		fmt.Printf("  %slast used%s   %s\n", colorCyan, colorReset,
			rec.LastUsed.Format("2006-01-02 15:04"))
	}

	if len(rec.Settings) > 0 {
		keys := make([]string, 0, len(rec.Settings))
		for k := range rec.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("  %ssettings%s\n", colorCyan, colorReset)
		for _, k := range keys {
			fmt.Printf("    %s%s%s = %s\n", colorGray, k, colorReset, rec.Settings[k])
		}
	}
	return nil
}
