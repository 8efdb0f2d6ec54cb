package maxrep

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/analytics"
)

// liveDashboard reloads logs before every recompute so scheduled runs see
// changes made elsewhere.
type liveDashboard struct {
	env  *env
	dash *analytics.Dashboard
}

func (l liveDashboard) Recompute(ctx context.Context) (analytics.Result, bool, error) {
	if err := l.env.loadLogs(ctx); err != nil {
		return analytics.Result{}, false, err
	}
	return l.dash.Recompute(ctx)
}

var watchCmd = &cobra.Command{
	Use:   "watch [daily|weekly|monthly|yearly]",
	Short: "Keep period analytics refreshed until interrupted",
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
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withEnv(cmd, func(e *env) error {
			out := cmd.OutOrStdout()
			r := &analytics.Refresher{
				Target:   liveDashboard{env: e, dash: e.dashboard(period)},
				Bus:      e.bus,
				Schedule: e.pollSchedule(),
				Logger:   e.logger,
				OnResult: func(res analytics.Result) {
					printResult(out, res)
					fmt.Fprintln(out)
				},
				OnError: func(err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
				},
			}
			if err := r.Start(ctx); err != nil {
				return err
			}
			defer r.Stop()

			e.logger.Info("watching analytics", zap.String("period", string(period)), zap.String("schedule", r.Schedule))
			r.Trigger(ctx, "start")
			<-ctx.Done()
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
