package maxrep

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record today's water, weight and sleep",
}

var logWaterCmd = &cobra.Command{
	Use:   "water <ml>",
	Short: "Set today's water intake in millilitres",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := parseFloatArg("water ml", args[0])
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.api.UpdateHydration(cmd.Context(), ml); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Water set to %g ml\n", ml)
			return nil
		})
	},
}

var logWeightCmd = &cobra.Command{
	Use:   "weight <kg>",
	Short: "Record today's body weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := parseFloatArg("weight kg", args[0])
		if err != nil {
			return err
		}
		if kg == 0 {
			return fmt.Errorf("weight kg must be > 0")
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.api.UpdateWeight(cmd.Context(), kg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weight set to %g kg\n", kg)
			return nil
		})
	},
}

var logSleepCmd = &cobra.Command{
	Use:   "sleep <hours>",
	Short: "Record last night's sleep",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := parseFloatArg("sleep hours", args[0])
		if err != nil {
			return err
		}
		if hours > 24 {
			return fmt.Errorf("sleep hours must be <= 24")
		}
		return withEnv(cmd, func(e *env) error {
			if err := e.api.UpdateSleep(cmd.Context(), hours); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sleep set to %g h\n", hours)
			return nil
		})
	},
}

func init() {
	logCmd.AddCommand(logWaterCmd, logWeightCmd, logSleepCmd)
	rootCmd.AddCommand(logCmd)
}
