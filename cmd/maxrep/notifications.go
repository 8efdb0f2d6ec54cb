package maxrep

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List account notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			items, err := e.api.Notifications(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No notifications")
				return nil
			}
			for _, n := range items {
				fmt.Fprintf(out, "[%s] %s: %s\n", n.Status, n.Title, n.Message)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
}
