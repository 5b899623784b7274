package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/domain/costs"
)

var usageCmd = &cobra.Command{
	Use:   "usage <spool-id> <grams>",
	Short: "Record filament consumed by a print",
	Long: "Appends a usage entry to the cost ledger. With --profile the matching " +
		"profile's used quantity is bumped as well.",
	Args: cobra.ExactArgs(2),
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().String("project", "", "project the print belongs to")
	usageCmd.Flags().String("material", "", "material type")
	usageCmd.Flags().Float64("cost-per-gram", 0, "cost per gram at time of use")
	usageCmd.Flags().String("profile", "", "profile filename to bump used quantity on")
}

func runUsage(cmd *cobra.Command, args []string) error {
	grams, err := parsePositiveFloat(args[1])
	if err != nil {
		return fmt.Errorf("grams: %w", err)
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

	project, _ := cmd.Flags().GetString("project")
	material, _ := cmd.Flags().GetString("material")
	costPerGram, _ := cmd.Flags().GetFloat64("cost-per-gram")

	analyzer := costs.NewAnalyzer(ps, env.logger)
	entry, err := analyzer.RecordUsage(project, args[0], material, grams, costPerGram, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("%srecorded%s %s used by %s (%.2f total)\n", colorGreen, colorReset,
		formatGrams(entry.GramsUsed), args[0], entry.TotalCost)

	profileName, _ := cmd.Flags().GetString("profile")
	if profileName == "" {
		return nil
	}

	rec := env.store.Get(profileName)
	if rec == nil {
		return fmt.Errorf("profile %q not found", profileName)
	}
	rec.UsedQuantity += grams
	rec.LastUsed = time.Now()

	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if _, err := env.store.Save(rec, profileName); err != nil {
		return err
	}
	fmt.Printf("%supdated%s %s (%s remaining)\n", colorGreen, colorReset,
		profileName, formatGrams(rec.RemainingGrams()))
	return nil
}
