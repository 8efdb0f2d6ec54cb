package maxrep

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log, edit and undo meals",
}

var (
	mealFood     string
	mealQuantity float64
	mealUnit     string
	mealType     string
	mealDate     string
	mealCalories float64
	mealProtein  float64
	mealCarbs    float64
	mealFats     float64
)

// resolveMeal turns the meal flags into a log entry, offering to create an
// unknown food from the given totals.
func resolveMeal(cmd *cobra.Command, e *env, date string) (model.MealLog, error) {
	if !catalog.IsMealType(mealType) {
		return model.MealLog{}, fmt.Errorf("invalid --meal %q (expected %s)", mealType, strings.Join(catalog.AllMeals, ", "))
	}
	if err := e.syncCatalog(cmd.Context()); err != nil {
		return model.MealLog{}, err
	}
	known, err := e.resolver.EnsureKnown(cmd.Context(), mealFood, catalog.Draft{
		Quantity: mealQuantity,
		Unit:     mealUnit,
		Totals:   catalog.Macros{Calories: mealCalories, Protein: mealProtein, Carbs: mealCarbs, Fats: mealFats},
	})
	if err != nil {
		return model.MealLog{}, err
	}
	if !known {
		return model.MealLog{}, fmt.Errorf("food %q is not in the catalog (add it with `maxrep food add`)", catalog.NormalizeName(mealFood))
	}
	r, err := e.resolver.Resolve(mealFood, mealQuantity, mealUnit)
	if err != nil {
		return model.MealLog{}, err
	}
	return model.MealLog{
		Date:     date,
		MealType: mealType,
		FoodName: r.Food.Name,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Calories: r.Macros.Calories,
		ProteinG: r.Macros.Protein,
		CarbsG:   r.Macros.Carbs,
		FatsG:    r.Macros.Fats,
		Source:   string(r.Food.Source),
	}, nil
}

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(mealFood) == "" {
			return fmt.Errorf("--food is required")
		}
		date, err := dateOrToday(mealDate)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			entry, err := resolveMeal(cmd, e, date)
			if err != nil {
				return err
			}
			created, err := e.meals.Add(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %d: %g %s %s (%.2f kcal)\n", created.ID, created.Quantity, created.Unit, created.FoodName, created.Calories)
			return nil
		})
	},
}

var mealListDate string

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			if err := e.loadMeals(cmd.Context()); err != nil {
				return err
			}
			meals := e.meals.All()
			if mealListDate != "" {
				date, err := dateOrToday(mealListDate)
				if err != nil {
					return err
				}
				meals = e.meals.OnDate(date)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tDATE\tMEAL\tFOOD\tQTY\tUNIT\tKCAL\tP\tC\tF")
			for _, m := range meals {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%g\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n", m.ID, m.Date, m.MealType, m.FoodName, m.Quantity, m.Unit, m.Calories, m.ProteinG, m.CarbsG, m.FatsG)
			}
			t := analytics.MealTotals(meals)
			fmt.Fprintf(out, "TOTAL\t%d entries\t\t\t\t\t%.2f\t%.2f\t%.2f\t%.2f\n", t.Entries, t.Calories, t.Protein, t.Carbs, t.Fats)
			return nil
		})
	},
}

var mealUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a meal; macros are recomputed from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			id, existing, err := existingEntry(cmd, e.meals, e.loadMeals, tracking.KindMeal, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("food") {
				mealFood = existing.FoodName
			}
			if !flags.Changed("quantity") {
				mealQuantity = existing.Quantity
			}
			if !flags.Changed("unit") && !flags.Changed("food") {
				mealUnit = existing.Unit
			}
			if !flags.Changed("meal") {
				mealType = existing.MealType
			}
			date := existing.Date
			if flags.Changed("date") {
				if date, err = dateOrToday(mealDate); err != nil {
					return err
				}
			}
			entry, err := resolveMeal(cmd, e, date)
			if err != nil {
				return err
			}
			updated, err := e.meals.Update(cmd.Context(), id, entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated meal %d (%.2f kcal)\n", updated.ID, updated.Calories)
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a meal; it can be restored with undo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			return removeEntry(cmd, e.meals, e.loadMeals, tracking.KindMeal, args[0])
		})
	},
}

var mealUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the most recently deleted meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			return undoEntry(cmd, e.meals, tracking.KindMeal)
		})
	},
}

func addMealFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mealFood, "food", "", "Food name")
	cmd.Flags().Float64Var(&mealQuantity, "quantity", 1, "Quantity in catalog units")
	cmd.Flags().StringVar(&mealUnit, "unit", "", "Unit (default: catalog unit)")
	cmd.Flags().StringVar(&mealType, "meal", catalog.MealBreakfast, "Meal type")
	cmd.Flags().StringVar(&mealDate, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&mealCalories, "calories", 0, "Total calories, used when creating an unknown food")
	cmd.Flags().Float64Var(&mealProtein, "protein", 0, "Total protein grams, used when creating an unknown food")
	cmd.Flags().Float64Var(&mealCarbs, "carbs", 0, "Total carb grams, used when creating an unknown food")
	cmd.Flags().Float64Var(&mealFats, "fats", 0, "Total fat grams, used when creating an unknown food")
}

func init() {
	addMealFlags(mealAddCmd)
	addMealFlags(mealUpdateCmd)
	mealListCmd.Flags().StringVar(&mealListDate, "date", "", "Only show meals on this date (YYYY-MM-DD)")

	mealCmd.AddCommand(mealAddCmd, mealListCmd, mealUpdateCmd, mealDeleteCmd, mealUndoCmd)
	rootCmd.AddCommand(mealCmd)
}
