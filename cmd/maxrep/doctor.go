package maxrep

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/db"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check local state for unusable rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := db.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expired cookies: %d\n", report.ExpiredCookies)
			fmt.Fprintf(out, "Invalid undo slots: %d\n", report.InvalidUndoSlots)
			fmt.Fprintf(out, "Invalid snapshot rows: %d\n", report.InvalidSnapshotRows)
			if doctorFix {
				fmt.Fprintf(out, "Fixed rows: %d\n", report.FixedRows)
				report, err = db.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues (run with --fix)")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Delete unusable rows")
}
