package maxrep

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/analytics"
	"github.com/maxrep/maxrep-cli/internal/session"
)

var (
	analyticsOffline bool
	analyticsJSON    bool
	analyticsAdvice  bool
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [daily|weekly|monthly|yearly]",
	Short: "Show period analytics merged with local logs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period := analytics.Weekly
		if len(args) == 1 {
			p, err := analytics.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			period = p
		}
		return withEnv(cmd, func(e *env) error {
			dash := e.dashboard(period)
			var res analytics.Result
			var err error
			if analyticsOffline {
				res, err = dash.Offline(period)
			} else {
				res, err = recomputeOnline(cmd, e, dash)
			}
			if err != nil {
				return err
			}

			var suggestions []string
			if analyticsAdvice && !res.Offline {
				adv, err := e.api.AdvancedAnalysis(cmd.Context(), string(period))
				if err != nil {
					e.logger.Warn("advanced analysis unavailable", zap.Error(err))
				} else {
					suggestions = adv.Suggestions
				}
			}

			if analyticsJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					analytics.Result
					Suggestions []string `json:"suggestions,omitempty"`
				}{res, suggestions})
			}
			printResult(cmd.OutOrStdout(), res)
			for _, s := range suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", s)
			}
			return nil
		})
	},
}

// recomputeOnline loads logs and recomputes; an unreachable server falls back
// to the last snapshot.
func recomputeOnline(cmd *cobra.Command, e *env, dash *analytics.Dashboard) (analytics.Result, error) {
	err := e.loadLogs(cmd.Context())
	if err == nil {
		var res analytics.Result
		res, _, err = dash.Recompute(cmd.Context())
		if err == nil {
			return res, nil
		}
	}
	if !errors.Is(err, session.ErrNetworkFailure) {
		return analytics.Result{}, err
	}
	e.logger.Warn("server unreachable, showing last snapshot", zap.Error(err))
	return dash.Offline(dash.View.Period())
}

func printResult(out io.Writer, res analytics.Result) {
	status := "live"
	if res.Offline {
		status = "offline snapshot"
	}
	fmt.Fprintf(out, "Period: %s (%s, %s)\n", res.Period, status, res.ComputedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintln(out, "DATE\tKCAL\tWATER\tP\tC\tF\tWORKOUT_MIN\tCONSISTENCY")
	for _, p := range res.Series {
		fmt.Fprintf(out, "%s\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\t%.0f\t%.1f\n", p.Date, p.CaloriesConsumed, p.WaterMl, p.ProteinG, p.CarbsG, p.FatsG, p.WorkoutMinutes, p.ConsistencyScore)
	}
	s := res.Summary
	fmt.Fprintf(out, "Averages: %.0f kcal, %.0f ml water, P %.1f C %.1f F %.1f, %.0f workout min, consistency %.1f\n", s.AvgCalories, s.AvgWater, s.AvgProtein, s.AvgCarbs, s.AvgFats, s.AvgWorkoutMinutes, s.AvgConsistency)
	c := res.Calories
	fmt.Fprintf(out, "Calories: %.0f of %.0f expected over %d logged days (%+.1f%%, %s)\n", c.Consumed, c.Expected, c.LoggedDays, c.DeltaPercent, c.Label)
	k := res.Cardio
	fmt.Fprintf(out, "Cardio: %.0f of %.0f min (%.0f%%, %s)\n", k.Minutes, k.Target, k.Percent, k.Label)
	if !res.Offline {
		fmt.Fprintf(out, "Streak: %d days\n", res.Tracking.StreakCount)
	}
}

func init() {
	analyticsCmd.Flags().BoolVar(&analyticsOffline, "offline", false, "Use the last saved snapshot without contacting the server")
	analyticsCmd.Flags().BoolVar(&analyticsJSON, "json", false, "Print the result as JSON")
	analyticsCmd.Flags().BoolVar(&analyticsAdvice, "advice", false, "Include server suggestions for the period")
	rootCmd.AddCommand(analyticsCmd)
}
