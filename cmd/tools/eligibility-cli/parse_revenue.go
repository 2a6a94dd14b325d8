package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"coaching-workers/internal/eligibility"

	"github.com/spf13/cobra"
)

var parseRevenueCmd = &cobra.Command{
	Use:   "parse-revenue <interval>",
	Short: "Print the revenue bounds read from a declared interval",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParseRevenue,
}

func init() {
	rootCmd.AddCommand(parseRevenueCmd)
}

type parsedRevenue struct {
	Input  string   `json:"input"`
	Parsed bool     `json:"parsed"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

func runParseRevenue(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	r, ok := eligibility.ParseRevenueRange(text)

	out, err := json.MarshalIndent(parsedRevenue{Input: text, Parsed: ok, Min: r.Min, Max: r.Max}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
