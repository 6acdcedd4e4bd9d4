package screener

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/internal/social"
	"github.com/surgescan/backend/pkg/config"
	"github.com/surgescan/backend/pkg/logger"
)

// Orchestrator runs the screening pipeline: fetch movers and benchmark,
// enrich each mover with all signals concurrently, classify, dispatch
// alerts and produce a deterministically ordered report.
type Orchestrator struct {
	cfg        config.ScreenerConfig
	quotes     contracts.QuoteSource
	candles    contracts.CandleSource
	mentions   []contracts.MentionSource
	delivery   contracts.DeliverySource
	dispatcher *Dispatcher
	logger     *logger.Logger
}

// NewOrchestrator wires the pipeline from its collaborators
func NewOrchestrator(
	cfg config.ScreenerConfig,
	quotes contracts.QuoteSource,
	candles contracts.CandleSource,
	mentions []contracts.MentionSource,
	delivery contracts.DeliverySource,
	dispatcher *Dispatcher,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		quotes:     quotes,
		candles:    candles,
		mentions:   mentions,
		delivery:   delivery,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Scan runs one full cycle. The caller always receives a well-formed report:
// a whole-cycle failure surfaces through the Error field, never a panic or
// a returned error.
func (o *Orchestrator) Scan(ctx context.Context) contracts.ScanReport {
	if o.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.ScanTimeout)
		defer cancel()
	}

	startTime := time.Now()

	var movers []contracts.Mover
	var benchmark float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movers, err = o.quotes.FetchMovers(gctx, o.cfg.Universe, o.cfg.MinPumpPercent)
		return err
	})
	g.Go(func() error {
		// Benchmark failure is neutral, not fatal
		change, err := o.quotes.FetchBenchmarkChange(gctx, o.cfg.BenchmarkSymbol)
		if err != nil {
			o.logger.WithError(err).WithField("symbol", o.cfg.BenchmarkSymbol).Warn("Benchmark fetch failed, using 0")
			return nil
		}
		benchmark = change
		return nil
	})

	if err := g.Wait(); err != nil {
		o.logger.WithError(err).Error("Scan failed")
		return contracts.ScanReport{
			Stocks:    []contracts.EnrichedStock{},
			ScannedAt: time.Now(),
			Error:     err.Error(),
		}
	}

	if len(movers) == 0 {
		o.logger.WithField("benchmark", benchmark).Info("No movers above pump threshold")
		return contracts.ScanReport{
			Stocks:                 []contracts.EnrichedStock{},
			ScannedAt:              time.Now(),
			BenchmarkChangePercent: benchmark,
		}
	}

	// Fan out enrichment across movers with a bounded concurrency budget.
	// Enrichment never fails; adapters absorb their own errors.
	enriched := make([]contracts.EnrichedStock, len(movers))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(o.cfg.MaxConcurrent)
	for i, mover := range movers {
		i, mover := i, mover
		eg.Go(func() error {
			enriched[i] = o.enrich(ectx, mover, benchmark)
			return nil
		})
	}
	_ = eg.Wait()

	alertsSent := 0
	for _, s := range enriched {
		if s.AlertSent {
			alertsSent++
		}
	}

	// Deterministic output order: status priority, then silence score desc
	sort.SliceStable(enriched, func(i, j int) bool {
		pi, pj := enriched[i].Status.Priority(), enriched[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return enriched[i].SilenceScore > enriched[j].SilenceScore
	})

	o.logger.WithFields(map[string]interface{}{
		"scanned":     len(enriched),
		"alerts_sent": alertsSent,
		"benchmark":   benchmark,
		"duration":    time.Since(startTime),
	}).Info("Scan completed")

	return contracts.ScanReport{
		Stocks:                 enriched,
		ScannedAt:              time.Now(),
		TotalScanned:           len(enriched),
		AlertsSent:             alertsSent,
		BenchmarkChangePercent: benchmark,
	}
}

// enrich gathers all five signals for one mover concurrently, waits for all
// of them, then derives criteria, status and (for alerts) a dispatch.
func (o *Orchestrator) enrich(ctx context.Context, mover contracts.Mover, benchmark float64) contracts.EnrichedStock {
	ticker := social.BaseTicker(mover.Symbol)

	mentionLists := make([][]contracts.Mention, len(o.mentions))
	var deliveryPct float64
	var pivots contracts.PivotLevels

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range o.mentions {
		i, source := i, source
		g.Go(func() error {
			mentionLists[i] = source.FetchMentions(gctx, ticker)
			return nil
		})
	}
	g.Go(func() error {
		deliveryPct = o.delivery.FetchDeliveryPercent(gctx, ticker)
		return nil
	})
	g.Go(func() error {
		pivots = o.pivotSignal(gctx, mover.Symbol, mover.Price)
		return nil
	})
	_ = g.Wait()

	stock := contracts.EnrichedStock{
		Mover:           mover,
		Mentions:        make([]contracts.Mention, 0),
		DeliveryPercent: deliveryPct,
		Pivots:          pivots,
	}

	for _, list := range mentionLists {
		for _, m := range list {
			stock.Mentions = append(stock.Mentions, m)
			switch m.Platform {
			case contracts.PlatformTwitter:
				stock.TwitterMentions++
			case contracts.PlatformReddit:
				stock.RedditMentions++
			case contracts.PlatformTelegram:
				stock.TelegramMentions++
			}
		}
	}
	stock.TotalMentions = stock.TwitterMentions + stock.RedditMentions + stock.TelegramMentions
	stock.SilenceScore = SilenceScore(mover.ChangePercent, stock.TotalMentions)
	stock.SectorOutperformance = Round2(mover.ChangePercent - benchmark)

	stock.Criteria = Evaluate(stock, o.cfg)
	stock.Status = Classify(stock.Criteria)

	if stock.Status == contracts.StatusAlert && o.dispatcher != nil {
		stock.AlertSent = o.dispatcher.MaybeDispatch(ctx, stock)
	}

	return stock
}

// pivotSignal fetches the last completed daily bars and computes the pivot
// levels. Like the other signals it is total: any failure yields an invalid
// (zero) PivotLevels.
func (o *Orchestrator) pivotSignal(ctx context.Context, symbol string, price float64) contracts.PivotLevels {
	candles, err := o.candles.FetchDailyCandles(ctx, symbol, 5)
	if err != nil {
		o.logger.WithError(err).WithField("symbol", symbol).Warn("Candle fetch failed, pivot unavailable")
		return contracts.PivotLevels{}
	}
	if len(candles) < 2 {
		o.logger.WithField("symbol", symbol).Warn("Not enough candles for pivot computation")
		return contracts.PivotLevels{}
	}

	// Second-to-last bar is the prior completed session
	prev := candles[len(candles)-2]
	return ComputePivots(prev, price, o.cfg.R2ProximityPercent)
}
