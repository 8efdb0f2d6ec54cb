package maxrep

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Request a performance report for logged or free-text entries",
}

var (
	reportPeriod      string
	reportMaintenance float64
	reportGoal        string
	reportWeight      float64
	reportSave        bool
	reportJSON        bool
)

func reportOptions() report.Options {
	return report.Options{
		MaintenanceKcal: reportMaintenance,
		Goal:            reportGoal,
		BodyWeightKg:    reportWeight,
		SaveToDailyLog:  reportSave,
	}
}

func orchestrator(e *env) *report.Orchestrator {
	return &report.Orchestrator{Analyzer: e.api, Logger: e.logger}
}

var reportMealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Analyze logged meals for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analytics.ParsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.loadMeals(cmd.Context()); err != nil {
				return err
			}
			resp, err := orchestrator(e).AnalyzeMeals(cmd.Context(), e.meals.All(), p, reportOptions())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), resp)
		})
	},
}

var reportWorkoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Analyze logged workouts for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := analytics.ParsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.loadWorkouts(cmd.Context()); err != nil {
				return err
			}
			resp, err := orchestrator(e).AnalyzeWorkouts(cmd.Context(), e.workouts.All(), p, reportOptions())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), resp)
		})
	},
}

var reportTextCmd = &cobra.Command{
	Use:   "text <entries...>",
	Short: "Analyze a free-text description of meals and workouts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			resp, err := orchestrator(e).Analyze(cmd.Context(), strings.Join(args, " "), reportOptions())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), resp)
		})
	},
}

func writeReport(out io.Writer, r model.PerformanceAnalysisResponse) error {
	if reportJSON {
		return printJSON(out, r)
	}
	n, w, h, d := r.NutritionReport, r.WorkoutReport, r.HydrationReport, r.Dashboard
	fmt.Fprintf(out, "Nutrition: %.0f kcal, P %.1f C %.1f F %.1f (balance %+.0f, %s)\n", n.TotalCaloriesKcal, n.TotalProteinG, n.TotalCarbsG, n.TotalFatsG, n.CalorieBalanceKcal, n.CalorieBalanceLabel)
	fmt.Fprintf(out, "Protein: %s, quality %.0f, score %.0f\n", n.ProteinAdequacyStatus, n.NutritionQualityScore, n.NutritionPerformanceScore)
	for _, m := range n.Meals {
		fmt.Fprintf(out, "  %s: %s (%.0f kcal)\n", m.Meal, strings.Join(m.DetectedItems, ", "), m.Macros.CaloriesKcal)
	}
	fmt.Fprintf(out, "Workout: volume %d, %s intensity, %.0f kcal, score %.0f\n", w.TrainingVolume, w.Intensity, w.EstimatedCaloriesBurnedKcal, w.WorkoutScore)
	if len(w.MuscleGroupsTrained) > 0 {
		fmt.Fprintf(out, "  Muscle groups: %s\n", strings.Join(w.MuscleGroupsTrained, ", "))
	}
	for _, insight := range w.RecoveryInsights {
		fmt.Fprintf(out, "  - %s\n", insight)
	}
	fmt.Fprintf(out, "Hydration: %.1f of %.1f L (%.0f%%, %s)\n", h.ConsumedLiters, h.TargetLiters, h.CompletionPercent, h.Status)
	fmt.Fprintf(out, "Net: %.0f kcal, activity %s, recovery %s\n", d.NetCaloriesKcal, d.ActivityLevel, d.RecoveryStatus)
	fmt.Fprintf(out, "Performance score: %.0f\n", d.OverallPerformanceScore)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{reportMealsCmd, reportWorkoutsCmd} {
		c.Flags().StringVar(&reportPeriod, "period", string(analytics.Daily), "Period: daily, weekly, monthly or yearly")
	}
	for _, c := range []*cobra.Command{reportMealsCmd, reportWorkoutsCmd, reportTextCmd} {
		c.Flags().Float64Var(&reportMaintenance, "maintenance", 0, "Maintenance calories")
		c.Flags().StringVar(&reportGoal, "goal", "", "Goal: "+strings.Join(report.Goals, ", "))
		c.Flags().Float64Var(&reportWeight, "weight", 0, "Body weight in kg")
		c.Flags().BoolVar(&reportSave, "save", false, "Save the analysis to today's log")
		c.Flags().BoolVar(&reportJSON, "json", false, "Print the raw report as JSON")
	}
	reportCmd.AddCommand(reportMealsCmd, reportWorkoutsCmd, reportTextCmd)
	rootCmd.AddCommand(reportCmd)
}
