package maxrep

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/provider/openfoodfacts"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Browse and extend the food catalog",
}

var (
	foodLocal    bool
	foodMealType string
)

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preset and custom foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		if foodMealType != "" && !catalog.IsMealType(foodMealType) {
			return fmt.Errorf("invalid --meal %q (expected %s)", foodMealType, strings.Join(catalog.AllMeals, ", "))
		}
		return withEnv(cmd, func(e *env) error {
			if !foodLocal {
				if err := e.syncCatalog(cmd.Context()); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			if foodMealType != "" {
				for _, name := range e.resolver.MealOptions(foodMealType) {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			fmt.Fprintln(out, "NAME\tUNIT\tKCAL\tP\tC\tF\tSOURCE")
			for _, f := range e.resolver.Foods() {
				fmt.Fprintf(out, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n", f.Name, f.Unit, f.PerUnit.Calories, f.PerUnit.Protein, f.PerUnit.Carbs, f.PerUnit.Fats, f.Source)
			}
			return nil
		})
	},
}

var foodDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List the server's default foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			foods, err := e.api.DefaultFoods(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "NAME\tUNIT\tKCAL\tP\tC\tF")
			for _, f := range foods {
				fmt.Fprintf(out, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n", f.Name, f.Unit, f.CaloriesPerUnit, f.ProteinPerUnit, f.CarbsPerUnit, f.FatsPerUnit)
			}
			return nil
		})
	},
}

var (
	foodName     string
	foodUnit     string
	foodCalories float64
	foodProtein  float64
	foodCarbs    float64
	foodFats     float64
	foodOverride bool
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a custom food with per-unit macros",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(foodName) == "" {
			return fmt.Errorf("--name is required")
		}
		if foodCalories < 0 || foodProtein < 0 || foodCarbs < 0 || foodFats < 0 {
			return fmt.Errorf("macros must be >= 0")
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.syncCatalog(cmd.Context()); err != nil {
				return err
			}
			f, err := e.resolver.RegisterCustomFood(cmd.Context(), catalog.NewFood{
				Name:           foodName,
				Unit:           foodUnit,
				PerUnit:        catalog.Macros{Calories: foodCalories, Protein: foodProtein, Carbs: foodCarbs, Fats: foodFats},
				OverridePreset: foodOverride,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added custom food %s (%s)\n", f.Name, f.Unit)
			return nil
		})
	},
}

var (
	foodImportName  string
	foodSearchLimit int
)

func foodLookup(e *env) *openfoodfacts.Client {
	c := openfoodfacts.NewClient(e.cfg.FoodLookupURL, &http.Client{Timeout: e.cfg.RequestTimeout})
	c.Logger = e.logger
	return c
}

var foodImportCmd = &cobra.Command{
	Use:   "import <barcode>",
	Short: "Create a custom food from an OpenFoodFacts barcode (per 100g)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			p, err := foodLookup(e).Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := e.syncCatalog(cmd.Context()); err != nil {
				return err
			}
			in := p.NewFood(foodImportName)
			in.OverridePreset = foodOverride
			f, err := e.resolver.RegisterCustomFood(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added custom food %s (%s): %.2f kcal, P %.2f C %.2f F %.2f\n", f.Name, f.Unit, f.PerUnit.Calories, f.PerUnit.Protein, f.PerUnit.Carbs, f.PerUnit.Fats)
			return nil
		})
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search OpenFoodFacts for packaged foods",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			products, err := foodLookup(e).Search(cmd.Context(), strings.Join(args, " "), foodSearchLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "BARCODE\tNAME\tBRAND\tKCAL/100G\tP\tC\tF")
			for _, p := range products {
				fmt.Fprintf(out, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n", p.Barcode, p.Name, p.Brand, p.Per100g.Calories, p.Per100g.Protein, p.Per100g.Carbs, p.Per100g.Fats)
			}
			return nil
		})
	},
}

var foodResolveUnit string

var foodResolveCmd = &cobra.Command{
	Use:   "resolve <name> <quantity>",
	Short: "Show macros for a quantity of a food",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseFloatArg("quantity", args[1])
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			if !foodLocal {
				if err := e.syncCatalog(cmd.Context()); err != nil {
					return err
				}
			}
			r, err := e.resolver.Resolve(args[0], qty, foodResolveUnit)
			if err != nil {
				return err
			}
			cfg := catalog.QuantityConfigFor(r.Food.Name, r.Unit)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%g %s %s (%s)\n", r.Quantity, r.Unit, r.Food.Name, r.Food.Source)
			fmt.Fprintf(out, "Calories: %.2f\nProtein: %.2f\nCarbs: %.2f\nFats: %.2f\n", r.Macros.Calories, r.Macros.Protein, r.Macros.Carbs, r.Macros.Fats)
			if err := cfg.Validate(r.Quantity); err != nil {
				fmt.Fprintf(out, "Note: %v (%s)\n", err, cfg.Label)
			}
			return nil
		})
	},
}

func init() {
	foodListCmd.Flags().BoolVar(&foodLocal, "local", false, "Skip syncing custom foods from the server")
	foodListCmd.Flags().StringVar(&foodMealType, "meal", "", "Only show foods offered for this meal type")

	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().StringVar(&foodUnit, "unit", "serving", "Catalog unit")
	foodAddCmd.Flags().Float64Var(&foodCalories, "calories", 0, "Calories per unit")
	foodAddCmd.Flags().Float64Var(&foodProtein, "protein", 0, "Protein grams per unit")
	foodAddCmd.Flags().Float64Var(&foodCarbs, "carbs", 0, "Carb grams per unit")
	foodAddCmd.Flags().Float64Var(&foodFats, "fats", 0, "Fat grams per unit")
	foodAddCmd.Flags().BoolVar(&foodOverride, "override", false, "Allow shadowing a preset with the same name")

	foodResolveCmd.Flags().StringVar(&foodResolveUnit, "unit", "", "Unit (default: catalog unit)")
	foodResolveCmd.Flags().BoolVar(&foodLocal, "local", false, "Skip syncing custom foods from the server")

	foodImportCmd.Flags().StringVar(&foodImportName, "name", "", "Catalog name (default: product name)")
	foodImportCmd.Flags().BoolVar(&foodOverride, "override", false, "Allow shadowing a preset with the same name")
	foodSearchCmd.Flags().IntVar(&foodSearchLimit, "limit", 10, "Maximum results")

	foodCmd.AddCommand(foodListCmd, foodDefaultsCmd, foodAddCmd, foodImportCmd, foodSearchCmd, foodResolveCmd)
	rootCmd.AddCommand(foodCmd)
}
