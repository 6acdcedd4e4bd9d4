// Package handlers implements the HTTP API handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/logger"
)

// Scanner runs one screening cycle
type Scanner interface {
	Scan(ctx context.Context) contracts.ScanReport
}

// ScanHandler handles the scan API endpoints. It remembers the most recent
// report so clients can poll without forcing a new cycle.
type ScanHandler struct {
	scanner Scanner
	logger  *logger.Logger

	mu     sync.Mutex
	latest *contracts.ScanReport
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanner Scanner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
		logger:  log,
	}
}

// Run triggers one scan cycle and returns the report
// POST /api/scan
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	report := h.scanner.Scan(r.Context())

	h.mu.Lock()
	h.latest = &report
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, report)
}

// Latest returns the most recent scan report
// GET /api/scan/latest
func (h *ScanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	report := h.latest
	h.mu.Unlock()

	if report == nil {
		respondError(w, http.StatusNotFound, "No scan has run yet")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Record stores a report produced outside the HTTP surface, such as a
// scheduled cycle, so /api/scan/latest reflects it.
func (h *ScanHandler) Record(report contracts.ScanReport) {
	h.mu.Lock()
	h.latest = &report
	h.mu.Unlock()
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
