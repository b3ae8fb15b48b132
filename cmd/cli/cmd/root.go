// Package cmd provides the CLI commands for procost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"procost/internal/config"
	"procost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "procost",
	Short: "Quote seafood-processing jobs from factory rate tables",
	Long: `procost computes cost breakdowns for seafood-processing jobs from
factory-specific rate tables, surcharges and toggleable optional charges.

It also evaluates field-mapping transformation expressions used when
importing enquiry data from external integrations.

Examples:
  procost quote --factory-dir ./factories --factory nordfjord --product Salmon --trim A --rm-spec 1-2kg --quantity 100
  procost eval --expr "parseFloat(value) * 1000" --input "2.5"
  procost factories --factory-dir ./factories`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.procost.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(factoriesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	} else {
		config.Set(config.LoadDefault())
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("procost version 0.1.0")
	},
}
