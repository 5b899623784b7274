package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/spool/internal/ports"
)

var addFlags struct {
	brand       string
	material    string
	color       string
	diameter    float64
	density     float64
	description string
	initial     float64
	costPerKg   float64
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new filament profile",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addFlags.brand, "brand", "", "filament brand")
	addCmd.Flags().StringVar(&addFlags.material, "material", "", "material type (PLA, PETG, ...)")
	addCmd.Flags().StringVar(&addFlags.color, "color", "", "filament color")
	addCmd.Flags().Float64Var(&addFlags.diameter, "diameter", ports.DefaultDiameter, "diameter in mm")
	addCmd.Flags().Float64Var(&addFlags.density, "density", 0, "density in g/cm3")
	addCmd.Flags().StringVar(&addFlags.description, "description", "", "free-form description")
	addCmd.Flags().Float64Var(&addFlags.initial, "initial", 0, "initial quantity in grams")
	addCmd.Flags().Float64Var(&addFlags.costPerKg, "cost", 0, "cost per kilogram")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addFlags.brand == "" && addFlags.material == "" && addFlags.color == "" {
		return fmt.Errorf("at least one of --brand, --material, --color is required")
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	lock, err := acquireLock(env.cfg)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	rec := &ports.ProfileRecord{
		ProfileMeta: ports.ProfileMeta{
			Brand:    addFlags.brand,
			Material: addFlags.material,
			Color:    addFlags.color,
			Diameter: addFlags.diameter,
		},
		Description:     addFlags.description,
		Density:         addFlags.density,
		InitialQuantity: addFlags.initial,
		CostPerKg:       addFlags.costPerKg,
	}

	filename, err := env.store.Save(rec, "")
	if err != nil {
		return err
	}
	fmt.Printf("%screated%s %s\n", colorGreen, colorReset, filename)
	return nil
}
