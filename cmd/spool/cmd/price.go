package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/domain/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Track and analyze filament prices",
}

var priceRecordCmd = &cobra.Command{
	Use:   "record <spool-id> <price-per-gram>",
	Short: "Record a price point for a spool",
	Args:  cobra.ExactArgs(2),
	RunE:  runPriceRecord,
}

var priceHistoryCmd = &cobra.Command{
	Use:   "history <spool-id>",
	Short: "Show the recorded price history for a spool",
	Args:  cobra.ExactArgs(1),
	RunE:  runPriceHistory,
}

var priceAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show spools whose price moved beyond a threshold",
	RunE:  runPriceAlerts,
}

var priceDealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "Show the cheapest current prices",
	RunE:  runPriceDeals,
}

func init() {
	priceRecordCmd.Flags().String("material", "", "material type")
	priceRecordCmd.Flags().String("currency", pricing.DefaultCurrency, "currency code")
	priceRecordCmd.Flags().String("source", "manual", "where the price was seen")

	priceAlertsCmd.Flags().Float64("threshold", 5, "change percentage that triggers an alert")
	priceAlertsCmd.Flags().Int("days", 30, "look-back window in days")

	priceDealsCmd.Flags().String("material", "", "restrict to one material")
	priceDealsCmd.Flags().Int("limit", 10, "maximum results")

	priceCmd.AddCommand(priceRecordCmd)
	priceCmd.AddCommand(priceHistoryCmd)
	priceCmd.AddCommand(priceAlertsCmd)
	priceCmd.AddCommand(priceDealsCmd)
}

// newTracker opens the price database and builds a tracker over it. The
// caller must Close the returned store.
func newTracker(env *appEnv) (*pricing.Tracker, func() error, error) {
	ps, err := openPriceStore(env.cfg)
	if err != nil {
		return nil, nil, err
	}
	return pricing.NewTracker(ps, env.logger), ps.Close, nil
}

func runPriceRecord(cmd *cobra.Command, args []string) error {
	price, err := parsePositiveFloat(args[1])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	tracker, closeStore, err := newTracker(env)
	if err != nil {
		return err
	}
	defer closeStore()

	material, _ := cmd.Flags().GetString("material")
	currency, _ := cmd.Flags().GetString("currency")
	source, _ := cmd.Flags().GetString("source")

	entry, err := tracker.Record(args[0], material, price, currency, source)
	if err != nil {
		return err
	}
	fmt.Printf("%srecorded%s %s at %s/g\n", colorGreen, colorReset,
		entry.SpoolID, formatMoney(entry.PricePerGram, entry.Currency))
	return nil
}

func runPriceHistory(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	tracker, closeStore, err := newTracker(env)
	if err != nil {
		return err
	}
	defer closeStore()

	history, err := tracker.History(args[0])
	if err != nil {
		return err
	}
	if history == nil || len(history.Entries) == 0 {
		fmt.Printf("%sno price history for %s%s\n", colorGray, args[0], colorReset)
		return nil
	}

	rows := make([][]string, 0, len(history.Entries))
	for _, e := range history.Entries {
		rows = append(rows, []string{
			formatUnix(e.RecordedAt),
			formatMoney(e.PricePerGram, e.Currency),
			dashIfEmpty(e.Source),
		})
	}
	fmt.Println(renderTable(
		[]string{"Recorded", "Price/g", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))

	trend, pct := pricing.TrendOver(history, 30, time.Now())
	fmt.Printf("%s30-day trend:%s %s (%s)\n", colorBold, colorReset, trend, formatPct(pct))
	return nil
}

func runPriceAlerts(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	tracker, closeStore, err := newTracker(env)
	if err != nil {
		return err
	}
	defer closeStore()

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	days, _ := cmd.Flags().GetInt("days")

	alerts, err := tracker.Alerts(threshold, days)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Printf("%sno price changes beyond %.1f%%%s\n", colorGray, threshold, colorReset)
		return nil
	}

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.SpoolID,
			displayCase(a.Material),
			fmt.Sprintf("%.4f", a.OldPrice),
			fmt.Sprintf("%.4f", a.NewPrice),
			formatPct(a.ChangePct),
			a.Direction,
		})
	}
	fmt.Println(renderTable(
		[]string{"Spool", "Material", "Old", "New", "Change", "Direction"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}

func runPriceDeals(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	tracker, closeStore, err := newTracker(env)
	if err != nil {
		return err
	}
	defer closeStore()

	material, _ := cmd.Flags().GetString("material")
	limit, _ := cmd.Flags().GetInt("limit")

	deals, err := tracker.BestDeals(material, limit)
	if err != nil {
		return err
	}
	if len(deals) == 0 {
		fmt.Printf("%sno prices recorded%s\n", colorGray, colorReset)
		return nil
	}

	rows := make([][]string, 0, len(deals))
	for _, d := range deals {
		rows = append(rows, []string{
			d.SpoolID,
			displayCase(d.Material),
			formatMoney(d.PricePerGram, d.Currency),
			string(d.Trend),
			formatPct(d.ChangePct),
			formatUnix(d.LastUpdated),
		})
	}
	fmt.Println(renderTable(
		[]string{"Spool", "Material", "Price/g", "Trend", "Change", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	))
	return nil
}
