// Package cmd - eval command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"procost/core/expr"
	"procost/internal/config"
)

var (
	evalExpr  string
	evalInput string
)

// evalCmd evaluates a transformation expression against a sample value
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a transformation expression against an input value",
	Long: `Run one field-mapping transformation expression in the sandbox.

Examples:
  procost eval --expr "value.toUpperCase()" --input "salmon"
  procost eval --expr "parseFloat(value) * 1000" --input "2.5"
  procost eval --expr "new Date(value).toISOString()" --input "2024-01-15"`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "expression to evaluate")
	evalCmd.Flags().StringVarP(&evalInput, "input", "i", "", "input value bound to `value`")
	evalCmd.MarkFlagRequired("expr")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	result, err := expr.EvaluateWith(expr.Options{
		MaxExpressionLength: cfg.Evaluation.MaxExpressionLength,
		MaxNestingDepth:     cfg.Evaluation.MaxNestingDepth,
	}, evalExpr, evalInput)
	if err != nil {
		return err
	}

	fmt.Println(result.AsString())
	return nil
}
