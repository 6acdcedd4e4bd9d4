// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/logger"
)

// Scanner runs one screening cycle
type Scanner interface {
	Scan(ctx context.Context) contracts.ScanReport
}

// Recorder receives each completed report, e.g. to serve it over the API
type Recorder interface {
	Record(report contracts.ScanReport)
}

// ScanJob runs the screening cycle on a cron schedule
type ScanJob struct {
	scanner  Scanner
	recorder Recorder
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a new scan job. recorder may be nil.
func NewScanJob(scanner Scanner, recorder Recorder, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		scanner:  scanner,
		recorder: recorder,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "surge_scan"
}

// Schedule returns the cron schedule expression
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one screening cycle
func (j *ScanJob) Run(ctx context.Context) error {
	report := j.scanner.Scan(ctx)

	if j.recorder != nil {
		j.recorder.Record(report)
	}

	if report.Error != "" {
		return fmt.Errorf("scan cycle failed: %s", report.Error)
	}

	j.logger.WithFields(map[string]interface{}{
		"scanned":     report.TotalScanned,
		"alerts_sent": report.AlertsSent,
		"benchmark":   report.BenchmarkChangePercent,
	}).Info("Scheduled scan completed")

	return nil
}
