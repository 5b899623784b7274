package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/domain/costs"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a filament cost report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().String("period", "monthly", "daily, weekly, monthly, yearly, or all_time")
	reportCmd.Flags().String("start", "", "explicit start date (YYYY-MM-DD), overrides --period")
	reportCmd.Flags().String("end", "", "explicit end date (YYYY-MM-DD)")
	reportCmd.Flags().Bool("json", false, "emit the report as JSON")
	reportCmd.Flags().Bool("csv", false, "emit the report as a CSV row")
}

func runReport(cmd *cobra.Command, args []string) error {
	periodArg, _ := cmd.Flags().GetString("period")
	period, err := costs.ParsePeriod(periodArg)
	if err != nil {
		return err
	}

	start, err := parseDateFlag(cmd, "start")
	if err != nil {
		return err
	}
	end, err := parseDateFlag(cmd, "end")
	if err != nil {
		return err
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	ps, err := openPriceStore(env.cfg)
	if err != nil {
		return err
	}
	defer ps.Close()

	analyzer := costs.NewAnalyzer(ps, env.logger)
	report, err := analyzer.GenerateReport(period, start, end)
	if err != nil {
		if errors.Is(err, costs.ErrNoData) {
			return fmt.Errorf("no usage recorded in that window")
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := report.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
		fmt.Print(report.CSV())
		return nil
	}

	printReport(report)
	return nil
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", name, raw)
	}
	return t, nil
}

func printReport(r *costs.Report) {
	fmt.Printf("%sCost report%s (%s, %s to %s)\n", colorBold, colorReset,
		r.Period, r.StartDate, r.EndDate)
	fmt.Printf("  %stotal used%s       %s\n", colorCyan, colorReset, formatGrams(r.TotalGramsUsed))
	fmt.Printf("  %stotal cost%s       %.2f\n", colorCyan, colorReset, r.TotalCost)
	fmt.Printf("  %scost per gram%s    %.4f\n", colorCyan, colorReset, r.CostPerGram)
	fmt.Printf("  %sprojects%s         %d (%.2f each)\n", colorCyan, colorReset,
		r.ProjectsCompleted, r.CostPerProject)
	if r.MostUsedMaterial != "" {
		fmt.Printf("  %smost used%s        %s\n", colorCyan, colorReset, displayCase(r.MostUsedMaterial))
	}
	if r.LeastUsedMaterial != "" {
		fmt.Printf("  %sleast used%s       %s\n", colorCyan, colorReset, displayCase(r.LeastUsedMaterial))
	}

	if len(r.UsageByMaterial) > 0 {
		materials := make([]string, 0, len(r.UsageByMaterial))
		for m := range r.UsageByMaterial {
			materials = append(materials, m)
		}
		sort.Strings(materials)

		rows := make([][]string, 0, len(materials))
		for _, m := range materials {
			rows = append(rows, []string{
				displayCase(m),
				formatGrams(r.UsageByMaterial[m]),
				fmt.Sprintf("%.2f", r.CostByMaterial[m]),
			})
		}
		fmt.Println(renderTable(
			[]string{"Material", "Used", "Cost"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
	}
}
