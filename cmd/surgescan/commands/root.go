// Package commands wires the surgescan CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "surgescan",
	Short: "End-of-day screener for silently surging stocks",
	Long: `surgescan screens a stock universe for strong intraday moves that
nobody is talking about yet: price up, benchmark outperformed, low retail
delivery, near the R2 pivot, and close to zero social-media chatter.

Usage:
  go run ./cmd/surgescan [command]

Examples:
  go run ./cmd/surgescan scan
  go run ./cmd/surgescan api
  go run ./cmd/surgescan watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
