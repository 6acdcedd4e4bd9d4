package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surgescan/backend/internal/scheduler"
	"github.com/surgescan/backend/internal/scheduler/jobs"
	"github.com/surgescan/backend/pkg/config"
	"github.com/surgescan/backend/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the screening cycle on a schedule",
	Long: `Runs the screening cycle on the configured cron schedule until
interrupted. The alert deduplication set spans the whole run, so a ticker
alerts at most once per process.

Example:
  go run ./cmd/surgescan watch
  SCAN_SCHEDULE="0 */5 * * * *" go run ./cmd/surgescan watch`,
	RunE: runWatch,
}

var runAtStart bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&runAtStart, "now", false, "run one cycle immediately before scheduling")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	orchestrator := buildOrchestrator(cfg, log)

	sched := scheduler.New(log)
	scanJob := jobs.NewScanJob(orchestrator, nil, cfg.ScanSchedule, log)
	if err := sched.AddJob(scanJob); err != nil {
		return fmt.Errorf("add scan job: %w", err)
	}

	if runAtStart {
		if err := sched.RunJob(scanJob.Name()); err != nil {
			return fmt.Errorf("run initial scan: %w", err)
		}
	}

	sched.Start()

	fmt.Printf("Watching on schedule %q\n", cfg.ScanSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
