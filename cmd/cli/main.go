// Package main is the entry point for the procost CLI.
package main

import (
	"os"

	"procost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
