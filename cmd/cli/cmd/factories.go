// Package cmd - factories command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"procost/adapters/hcl"
	"procost/internal/config"
)

var listFactoryDir string

// factoriesCmd lists the factories defined in the factory directory
var factoriesCmd = &cobra.Command{
	Use:   "factories",
	Short: "List available factory definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := listFactoryDir
		if dir == "" {
			dir = config.Get().FactoryDir
		}

		loader := hcl.NewLoader(dir)
		ids, err := loader.ListFactories(context.Background())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No factories defined.")
			return nil
		}
		for _, id := range ids {
			f, err := loader.LoadFactory(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%-20s %s (%s, %s)\n", id, f.Name, f.Location, f.CurrencySymbol())
		}
		return nil
	},
}

func init() {
	factoriesCmd.Flags().StringVar(&listFactoryDir, "factory-dir", "", "directory with factory definition files (default from config)")
}
