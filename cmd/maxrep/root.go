package maxrep

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	verbose    bool
	assumeYes  bool
)

var rootCmd = &cobra.Command{
	Use:           "maxrep",
	Short:         "maxrep logs meals and workouts against your MaxRep account",
	Long:          "maxrep is a terminal client for the MaxRep tracker: meal and workout logs with undo, a food catalog, period analytics and performance reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to local SQLite state (cookies, undo, snapshots)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <user config dir>/maxrep/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")
}
