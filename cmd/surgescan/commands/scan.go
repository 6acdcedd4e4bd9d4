package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surgescan/backend/pkg/config"
	"github.com/surgescan/backend/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one screening cycle and print the report",
	Long: `Runs a single screening cycle against the configured universe and
prints the full report as JSON to stdout. Alerts for stocks meeting all
four criteria are sent to Telegram if a bot is configured.

Example:
  go run ./cmd/surgescan scan
  go run ./cmd/surgescan scan | jq '.stocks[] | select(.status == "alert")'`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	orchestrator := buildOrchestrator(cfg, log)

	report := orchestrator.Scan(context.Background())

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if report.Error != "" {
		return fmt.Errorf("scan failed: %s", report.Error)
	}
	return nil
}
