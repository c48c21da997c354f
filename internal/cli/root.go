// Package cli implements the reef command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reef",
	Short: "Task graph and reconciliation engine",
	Long: `reef maintains a durable set of tasks with dependencies and drives
them through a pending → in_progress → completed lifecycle.

Features:
  • Batch planning with append, overwrite, selective and clearAllTasks modes
  • Dependency resolution by ID or name, with cycle detection
  • Execution gating: a task starts only when its dependencies are done
  • Score-based verification (80 and above completes a task)
  • Atomic JSON snapshot with optional SQLite search index

Quick start:
  reef init                   Initialize reef in current project
  reef plan -f plan.yaml      Reconcile a batch of planned tasks
  reef list                   List tasks
  reef start <task>           Begin work on a task`,
	SilenceUsage: true,
	// Errors are formatted by PrintError in main.
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .reef/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	// Add subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in .reef directory
		viper.AddConfigPath(".reef")
		viper.AddConfigPath("$HOME/.reef")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("REEF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
