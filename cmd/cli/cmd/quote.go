// Package cmd - quote command
package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"procost/adapters/hcl"
	"procost/core/catalog"
	"procost/core/quote"
	"procost/core/types"
	"procost/internal/config"
	"procost/internal/logging"
)

var (
	factoryDir    string
	factoryID     string
	productType   string
	product       string
	trimType      string
	rmSpec        string
	quantity      float64
	yieldValue    float64
	boxQty        string
	packagingType string
	freezing      string
	storage       bool
	storageWeeks  float64
	noPallet      bool
	noTerminal    bool
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a cost breakdown for one processing job",
	Long: `Compose the cost breakdown for a fully-specified processing job from a
factory's rate tables.

Examples:
  procost quote --factory nordfjord --product Salmon --trim A --rm-spec 1-2kg --quantity 100 --box-qty 10 --packaging Box
  procost quote --factory nordfjord --product Salmon --trim A --rm-spec 1-2kg --quantity 100 --product-type Frozen --freezing tunnel --storage --weeks 1.5`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&factoryDir, "factory-dir", "", "directory with factory definition files (default from config)")
	quoteCmd.Flags().StringVar(&factoryID, "factory", "", "factory id")
	quoteCmd.Flags().StringVar(&productType, "product-type", "Fresh", "product type (Fresh, Frozen)")
	quoteCmd.Flags().StringVar(&product, "product", "", "product")
	quoteCmd.Flags().StringVar(&trimType, "trim", "", "trim type")
	quoteCmd.Flags().StringVar(&rmSpec, "rm-spec", "", "raw material specification")
	quoteCmd.Flags().Float64Var(&quantity, "quantity", 0, "quantity in kg")
	quoteCmd.Flags().Float64Var(&yieldValue, "yield", 0, "yield percentage (0-100)")
	quoteCmd.Flags().StringVar(&boxQty, "box-qty", "", "box quantity")
	quoteCmd.Flags().StringVar(&packagingType, "packaging", "", "packaging type")
	quoteCmd.Flags().StringVar(&freezing, "freezing", "", "freezing method for frozen jobs (tunnel, gyro)")
	quoteCmd.Flags().BoolVar(&storage, "storage", false, "storage required")
	quoteCmd.Flags().Float64Var(&storageWeeks, "weeks", 1.0, "storage duration in weeks")
	quoteCmd.Flags().BoolVar(&noPallet, "no-pallet", false, "disable the pallet charge")
	quoteCmd.Flags().BoolVar(&noTerminal, "no-terminal", false, "disable the terminal charge")

	quoteCmd.MarkFlagRequired("factory")
	quoteCmd.MarkFlagRequired("product")
	quoteCmd.MarkFlagRequired("quantity")
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	dir := factoryDir
	if dir == "" {
		dir = cfg.FactoryDir
	}

	loader := hcl.NewLoader(dir)
	factory, err := loader.LoadFactory(ctx, factoryID)
	if err != nil {
		return fmt.Errorf("loading factory: %w", err)
	}
	logging.Info("factory loaded")

	job := types.JobSpec{
		ProductType:       types.ProductType(productType),
		Product:           product,
		TrimType:          trimType,
		RMSpec:            rmSpec,
		Quantity:          decimal.NewFromFloat(quantity),
		YieldValue:        yieldValue,
		BoxQty:            boxQty,
		PackagingType:     packagingType,
		IsStorageRequired: storage,
		NumberOfWeeks:     storageWeeks,
	}
	if job.ProductType == types.ProductFrozen && freezing != "" {
		job.FreezingMethod = types.FreezingMethodFromInstructions(freezing)
	}

	line := quote.NewLine(catalog.New(factory), job)
	if job.ProductType == types.ProductFrozen && storage {
		line.SetStorageRequired(true)
	}
	if noPallet {
		if err := line.Toggle(quote.TogglePalletCharge, false); err != nil {
			return err
		}
	}
	if noTerminal {
		if err := line.Toggle(quote.ToggleTerminalCharge, false); err != nil {
			return err
		}
	}

	printBreakdown(factory, line)
	return nil
}

func printBreakdown(factory *types.Factory, line *quote.Line) {
	b := line.Breakdown()
	sym := factory.CurrencySymbol()

	fmt.Printf("Factory: %s (%s)\n\n", factory.Name, factory.ID)

	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Filleting", b.FilletingAmount},
		{"Packaging", b.PackagingAmount},
		{"Additional charges", b.AdditionalCharges},
		{"Freezing", b.FreezingCharge},
		{"Optional charges", b.OptionalTotal},
		{"Frozen flat fees", b.FrozenFlatFees},
	}
	for _, r := range rows {
		fmt.Printf("  %-24s %12s %s\n", r.label, r.amount.StringFixed(2), sym)
	}
	fmt.Printf("  %-24s %12s %s\n", "Subtotal", b.Subtotal.StringFixed(2), sym)
	fmt.Printf("  %-24s %12s %s\n", "Percentage fees", b.PercentageFees.StringFixed(2), sym)
	fmt.Printf("  %-24s %12s %s\n", "Total", b.Total.StringFixed(2), sym)
	fmt.Printf("  %-24s %12s %s\n", "Cost per kg", b.CostPerKg.StringFixed(4), sym)

	if b.StorageWeeks > 0 && line.Job().IsStorageRequired {
		fmt.Printf("\nStorage billed for %d weeks\n", b.StorageWeeks)
	}
	if charges := line.OptionalCharges(); len(charges) > 0 {
		fmt.Println("\nOptional charges:")
		for _, c := range charges {
			fmt.Printf("  %-40s %12s %s\n", c.Name, c.Value.StringFixed(2), sym)
		}
	}
}
