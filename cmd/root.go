package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kbowers/daytally/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "daytally",
	Short: "Daytally - a personal productivity data store",
	Long: `Daytally tracks habits, focus sessions, expenses, subscriptions,
daily tasks and screen time in a local SQLite database.`,
}

func init() {
	rootCmd.AddCommand(cli.HabitCmd())
	rootCmd.AddCommand(cli.CategoryCmd())
	rootCmd.AddCommand(cli.ExpenseCmd())
	rootCmd.AddCommand(cli.SessionCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.SubscriptionCmd())
	rootCmd.AddCommand(cli.SummaryCmd())
	rootCmd.AddCommand(cli.BMICmd())
	rootCmd.AddCommand(cli.DaysCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.BackupCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
