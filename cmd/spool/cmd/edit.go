package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <filename>",
	Short: "Edit fields of an existing profile",
	Long:  "Only the flags you pass are changed; everything else round-trips unchanged.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().String("brand", "", "filament brand")
	editCmd.Flags().String("material", "", "material type")
	editCmd.Flags().String("color", "", "filament color")
	editCmd.Flags().Float64("diameter", 0, "diameter in mm")
	editCmd.Flags().Float64("density", 0, "density in g/cm3")
	editCmd.Flags().String("description", "", "free-form description")
	editCmd.Flags().Float64("initial", 0, "initial quantity in grams")
	editCmd.Flags().Float64("used", 0, "used quantity in grams")
	editCmd.Flags().Float64("cost", 0, "cost per kilogram")
	editCmd.Flags().StringToString("set", nil, "slicer setting key=value (repeatable)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}

	rec := env.store.Get(args[0])
	if rec == nil {
		return fmt.Errorf("profile %q not found", args[0])
	}

	flags := cmd.Flags()
	if flags.Changed("brand") {
		rec.Brand, _ = flags.GetString("brand")
	}
	if flags.Changed("material") {
		rec.Material, _ = flags.GetString("material")
	}
	if flags.Changed("color") {
		rec.Color, _ = flags.GetString("color")
	}
	if flags.Changed("diameter") {
		rec.Diameter, _ = flags.GetFloat64("diameter")
	}
	if flags.Changed("density") {
		rec.Density, _ = flags.GetFloat64("density")
	}
	if flags.Changed("description") {
		rec.Description, _ = flags.GetString("description")
	}
	if flags.Changed("initial") {
		rec.InitialQuantity, _ = flags.GetFloat64("initial")
	}
	if flags.Changed("used") {
		rec.UsedQuantity, _ = flags.GetFloat64("used")
	}
	if flags.Changed("cost") {
		rec.CostPerKg, _ = flags.GetFloat64("cost")
	}
	if flags.Changed("set") {
		settings, _ := flags.GetStringToString("set")
		if rec.Settings == nil {
			rec.Settings = make(map[string]string, len(settings))
		}
		for k, v := range settings {
			rec.Settings[k] = v
		}
	}

	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	filename, err := env.store.Save(rec, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%ssaved%s %s\n", colorGreen, colorReset, filename)
	return nil
}
