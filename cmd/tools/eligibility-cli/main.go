// Package main provides an offline tool for exercising the eligibility rules.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eligibility-cli",
	Short: "Run the pre-application eligibility rules outside a workflow",
	Long:  "eligibility-cli scores a candidate against program thresholds and inspects how declared revenue intervals are read.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
