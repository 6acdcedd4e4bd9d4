package screener

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/logger"
)

// AlertedSet tracks tickers that already triggered a dispatched notification
// during this process lifetime. Entries are only added on successful
// dispatch and never removed; a restart is the only reset path.
type AlertedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewAlertedSet creates an empty set
func NewAlertedSet() *AlertedSet {
	return &AlertedSet{seen: make(map[string]struct{})}
}

// Contains reports whether ticker has already been alerted
func (s *AlertedSet) Contains(ticker string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[ticker]
	return ok
}

// Add records ticker as alerted
func (s *AlertedSet) Add(ticker string) {
	s.mu.Lock()
	s.seen[ticker] = struct{}{}
	s.mu.Unlock()
}

// Len returns the number of alerted tickers
func (s *AlertedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Dispatcher sends at most one outbound notification per ticker per process
// lifetime. The AlertedSet is injected so the host owns the single instance.
type Dispatcher struct {
	notifier contracts.Notifier
	alerted  *AlertedSet
	logger   *logger.Logger
}

// NewDispatcher creates a dispatcher around the given notification channel
func NewDispatcher(notifier contracts.Notifier, alerted *AlertedSet, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		alerted:  alerted,
		logger:   log,
	}
}

// MaybeDispatch sends an alert for stock unless its ticker already alerted.
// On transport failure or a missing channel the ticker is NOT marked, so a
// later cycle may retry.
func (d *Dispatcher) MaybeDispatch(ctx context.Context, stock contracts.EnrichedStock) bool {
	if d.alerted.Contains(stock.Symbol) {
		d.logger.WithField("symbol", stock.Symbol).Debug("Alert suppressed, already notified")
		return false
	}

	if d.notifier == nil || !d.notifier.Configured() {
		d.logger.WithField("symbol", stock.Symbol).Warn("Alert skipped, notification channel not configured")
		return false
	}

	if err := d.notifier.Send(ctx, FormatAlert(stock)); err != nil {
		d.logger.WithError(err).WithField("symbol", stock.Symbol).Warn("Alert send failed")
		return false
	}

	d.alerted.Add(stock.Symbol)
	d.logger.WithFields(map[string]interface{}{
		"symbol":        stock.Symbol,
		"silence_score": stock.SilenceScore,
	}).Info("Alert dispatched")
	return true
}

// FormatAlert composes the outbound alert message
func FormatAlert(s contracts.EnrichedStock) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚨 Silent surge: %s\n\n", s.Symbol)
	fmt.Fprintf(&b, "Price: %.2f (%+.2f%%)\n", s.Price, s.ChangePercent)
	fmt.Fprintf(&b, "Silence score: %.2f (%d mentions)\n", s.SilenceScore, s.TotalMentions)
	if s.DeliveryPercent >= 0 {
		fmt.Fprintf(&b, "Delivery: %.1f%%\n", s.DeliveryPercent)
	}
	if s.Pivots.Valid {
		fmt.Fprintf(&b, "R2 %.2f, proximity %.2f%%\n", s.Pivots.R2, s.Pivots.R2Proximity)
	}
	fmt.Fprintf(&b, "Vs benchmark: %+.2f pts", s.SectorOutperformance)

	return b.String()
}
