package maxrep

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log, edit and undo workouts",
}

var (
	workoutCategory string
	workoutName     string
	workoutSets     int
	workoutReps     int
	workoutMinutes  float64
	workoutBurn     float64
	workoutNotes    string
	workoutDate     string
)

// applyWorkoutFlags overlays the flags the user set onto w.
func applyWorkoutFlags(cmd *cobra.Command, w model.WorkoutLog) (model.WorkoutLog, error) {
	flags := cmd.Flags()
	if flags.Changed("category") {
		w.Category = workoutCategory
	}
	if flags.Changed("name") {
		w.Name = workoutName
	}
	if flags.Changed("sets") {
		w.Sets = optionalInt(workoutSets, true)
	}
	if flags.Changed("reps") {
		w.Reps = optionalInt(workoutReps, true)
	}
	if flags.Changed("minutes") {
		w.DurationMinutes = optionalFloat(workoutMinutes, true)
		if !flags.Changed("burn") {
			w.CaloriesBurnedKcal = 0
		}
	}
	if flags.Changed("burn") {
		w.CaloriesBurnedKcal = workoutBurn
	}
	if flags.Changed("notes") {
		w.Notes = optionalString(workoutNotes, true)
	}
	if flags.Changed("date") || w.Date == "" {
		date, err := dateOrToday(workoutDate)
		if err != nil {
			return w, err
		}
		w.Date = date
	}
	return tracking.NormalizeWorkout(w), nil
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(workoutName) == "" {
			return fmt.Errorf("--name is required")
		}
		w, err := applyWorkoutFlags(cmd, model.WorkoutLog{Category: workoutCategory, Name: workoutName})
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			created, err := e.workouts.Add(cmd.Context(), w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workout %d: %s %s (%.0f kcal)\n", created.ID, created.Category, created.Name, created.CaloriesBurnedKcal)
			return nil
		})
	},
}

var workoutListDate string

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			if err := e.loadWorkouts(cmd.Context()); err != nil {
				return err
			}
			workouts := e.workouts.All()
			if workoutListDate != "" {
				date, err := dateOrToday(workoutListDate)
				if err != nil {
					return err
				}
				workouts = e.workouts.OnDate(date)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "ID\tDATE\tCATEGORY\tNAME\tSETS\tREPS\tMIN\tKCAL")
			for _, w := range workouts {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\t%g\t%.0f\n", w.ID, w.Date, w.Category, w.Name, intOrDash(w.Sets), intOrDash(w.Reps), w.Minutes(), w.CaloriesBurnedKcal)
			}
			t := analytics.WorkoutTotals(workouts)
			fmt.Fprintf(out, "TOTAL\t%d sessions\t\t\t\t\t%g\t%.0f\n", t.Sessions, t.Minutes, t.Burn)
			return nil
		})
	},
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

var workoutUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			id, existing, err := existingEntry(cmd, e.workouts, e.loadWorkouts, tracking.KindWorkout, args[0])
			if err != nil {
				return err
			}
			w, err := applyWorkoutFlags(cmd, existing)
			if err != nil {
				return err
			}
			updated, err := e.workouts.Update(cmd.Context(), id, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated workout %d\n", updated.ID)
			return nil
		})
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout; it can be restored with undo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			return removeEntry(cmd, e.workouts, e.loadWorkouts, tracking.KindWorkout, args[0])
		})
	},
}

var workoutUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the most recently deleted workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			return undoEntry(cmd, e.workouts, tracking.KindWorkout)
		})
	},
}

func addWorkoutFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&workoutCategory, "category", tracking.CategoryStrength, "Category (strength, cardio, ...)")
	cmd.Flags().StringVar(&workoutName, "name", "", "Exercise name")
	cmd.Flags().IntVar(&workoutSets, "sets", 0, "Sets (strength only)")
	cmd.Flags().IntVar(&workoutReps, "reps", 0, "Reps per set (strength only)")
	cmd.Flags().Float64Var(&workoutMinutes, "minutes", 0, "Duration in minutes")
	cmd.Flags().Float64Var(&workoutBurn, "burn", 0, "Calories burned (default: estimated from duration)")
	cmd.Flags().StringVar(&workoutNotes, "notes", "", "Notes")
	cmd.Flags().StringVar(&workoutDate, "date", "", "Date (YYYY-MM-DD, default today)")
}

func init() {
	addWorkoutFlags(workoutAddCmd)
	addWorkoutFlags(workoutUpdateCmd)
	workoutListCmd.Flags().StringVar(&workoutListDate, "date", "", "Only show workouts on this date (YYYY-MM-DD)")

	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutUpdateCmd, workoutDeleteCmd, workoutUndoCmd)
	rootCmd.AddCommand(workoutCmd)
}
