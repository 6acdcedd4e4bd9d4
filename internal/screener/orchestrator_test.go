package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/logger"
)

type fakeQuotes struct {
	movers    []contracts.Mover
	moversErr error
	benchmark float64
	benchErr  error
}

func (q *fakeQuotes) FetchMovers(ctx context.Context, symbols []string, minChangePercent float64) ([]contracts.Mover, error) {
	return q.movers, q.moversErr
}

func (q *fakeQuotes) FetchBenchmarkChange(ctx context.Context, symbol string) (float64, error) {
	return q.benchmark, q.benchErr
}

type fakeCandles struct {
	bySymbol map[string][]contracts.Candle
	err      error
}

func (c *fakeCandles) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]contracts.Candle, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.bySymbol[symbol], nil
}

type fakeMentions struct {
	platform contracts.Platform
	byTicker map[string][]contracts.Mention
}

func (m *fakeMentions) Platform() contracts.Platform { return m.platform }

func (m *fakeMentions) FetchMentions(ctx context.Context, ticker string) []contracts.Mention {
	return m.byTicker[ticker]
}

type fakeDelivery struct {
	byTicker map[string]float64
}

func (d *fakeDelivery) FetchDeliveryPercent(ctx context.Context, ticker string) float64 {
	if pct, ok := d.byTicker[ticker]; ok {
		return pct
	}
	return contracts.DeliveryUnavailable
}

// nearR2Candles yields R2=120 so a price around 120 is near resistance
func nearR2Candles() []contracts.Candle {
	return []contracts.Candle{
		{High: 110, Low: 90, Close: 100},  // prior completed session
		{High: 121, Low: 111, Close: 120}, // most recent bar
	}
}

func mention(p contracts.Platform, title string) contracts.Mention {
	return contracts.Mention{Platform: p, Title: title, URL: "https://example.com/post"}
}

func newTestOrchestrator(
	quotes *fakeQuotes,
	candles *fakeCandles,
	mentions []contracts.MentionSource,
	delivery *fakeDelivery,
	notifier *fakeNotifier,
) *Orchestrator {
	cfg := testScreenerConfig()
	cfg.ScanTimeout = 5 * time.Second

	return NewOrchestrator(
		cfg,
		quotes,
		candles,
		mentions,
		delivery,
		NewDispatcher(notifier, NewAlertedSet(), logger.Nop()),
		logger.Nop(),
	)
}

func TestScanSilentSurgeDispatchesAlert(t *testing.T) {
	quotes := &fakeQuotes{
		movers: []contracts.Mover{
			{Symbol: "TCS.NS", Name: "TCS", Price: 120.5, ChangePercent: 6.0},
		},
		benchmark: 3.0,
	}
	candles := &fakeCandles{bySymbol: map[string][]contracts.Candle{"TCS.NS": nearR2Candles()}}
	mentions := []contracts.MentionSource{
		&fakeMentions{platform: contracts.PlatformTwitter, byTicker: map[string][]contracts.Mention{}},
		&fakeMentions{platform: contracts.PlatformReddit, byTicker: map[string][]contracts.Mention{}},
		&fakeMentions{platform: contracts.PlatformTelegram, byTicker: map[string][]contracts.Mention{}},
	}
	delivery := &fakeDelivery{byTicker: map[string]float64{"TCS": 20.0}}
	notifier := &fakeNotifier{configured: true}

	o := newTestOrchestrator(quotes, candles, mentions, delivery, notifier)
	report := o.Scan(context.Background())

	require.Empty(t, report.Error)
	require.Len(t, report.Stocks, 1)

	s := report.Stocks[0]
	assert.Equal(t, contracts.StatusAlert, s.Status)
	assert.True(t, s.AlertSent)
	assert.Equal(t, 1, report.AlertsSent)
	assert.Equal(t, 1, report.TotalScanned)
	assert.Equal(t, 3.0, report.BenchmarkChangePercent)
	assert.Equal(t, 6.0, s.SilenceScore)
	assert.Equal(t, 3.0, s.SectorOutperformance)
	assert.Len(t, notifier.sent, 1)
}

func TestScanSecondCycleSuppressesDuplicateAlert(t *testing.T) {
	quotes := &fakeQuotes{
		movers:    []contracts.Mover{{Symbol: "TCS.NS", Price: 120.5, ChangePercent: 6.0}},
		benchmark: 3.0,
	}
	candles := &fakeCandles{bySymbol: map[string][]contracts.Candle{"TCS.NS": nearR2Candles()}}
	mentions := []contracts.MentionSource{
		&fakeMentions{platform: contracts.PlatformTwitter, byTicker: map[string][]contracts.Mention{}},
	}
	delivery := &fakeDelivery{byTicker: map[string]float64{"TCS": 20.0}}
	notifier := &fakeNotifier{configured: true}

	o := newTestOrchestrator(quotes, candles, mentions, delivery, notifier)

	first := o.Scan(context.Background())
	second := o.Scan(context.Background())

	assert.Equal(t, 1, first.AlertsSent)
	assert.Equal(t, 0, second.AlertsSent)
	assert.False(t, second.Stocks[0].AlertSent)
	// Status is still alert; only the notification is deduplicated
	assert.Equal(t, contracts.StatusAlert, second.Stocks[0].Status)
	assert.Len(t, notifier.sent, 1)
}

func TestScanMentionCountsAggregate(t *testing.T) {
	quotes := &fakeQuotes{
		movers:    []contracts.Mover{{Symbol: "SBIN.NS", Price: 100, ChangePercent: 5.0}},
		benchmark: 1.0,
	}
	candles := &fakeCandles{bySymbol: map[string][]contracts.Candle{"SBIN.NS": nearR2Candles()}}
	mentions := []contracts.MentionSource{
		&fakeMentions{platform: contracts.PlatformTwitter, byTicker: map[string][]contracts.Mention{
			"SBIN": {mention(contracts.PlatformTwitter, "a"), mention(contracts.PlatformTwitter, "b")},
		}},
		&fakeMentions{platform: contracts.PlatformReddit, byTicker: map[string][]contracts.Mention{
			"SBIN": {mention(contracts.PlatformReddit, "c")},
		}},
		&fakeMentions{platform: contracts.PlatformTelegram, byTicker: map[string][]contracts.Mention{
			"SBIN": {mention(contracts.PlatformTelegram, "d")},
		}},
	}
	delivery := &fakeDelivery{byTicker: map[string]float64{"SBIN": 50.0}}

	o := newTestOrchestrator(quotes, candles, mentions, delivery, &fakeNotifier{configured: true})
	report := o.Scan(context.Background())

	require.Len(t, report.Stocks, 1)
	s := report.Stocks[0]

	assert.Equal(t, 2, s.TwitterMentions)
	assert.Equal(t, 1, s.RedditMentions)
	assert.Equal(t, 1, s.TelegramMentions)
	assert.Equal(t, s.TwitterMentions+s.RedditMentions+s.TelegramMentions, s.TotalMentions)
	assert.Len(t, s.Mentions, 4)
	// 5.0 / (1 + 4)
	assert.Equal(t, 1.0, s.SilenceScore)
	assert.False(t, s.Criteria.PassesMentions)
}

func TestScanReportOrdering(t *testing.T) {
	// AAA: all criteria pass -> alert
	// BBB: delivery too high  -> 3 of 4 -> watch
	// CCC: only sector passes -> filtered
	quotes := &fakeQuotes{
		movers: []contracts.Mover{
			{Symbol: "CCC.NS", Price: 120.5, ChangePercent: 4.5},
			{Symbol: "BBB.NS", Price: 120.5, ChangePercent: 5.0},
			{Symbol: "AAA.NS", Price: 120.5, ChangePercent: 6.0},
		},
		benchmark: 1.0,
	}
	candles := &fakeCandles{bySymbol: map[string][]contracts.Candle{
		"AAA.NS": nearR2Candles(),
		"BBB.NS": nearR2Candles(),
	}}
	mentions := []contracts.MentionSource{
		&fakeMentions{platform: contracts.PlatformTwitter, byTicker: map[string][]contracts.Mention{
			"CCC": {mention(contracts.PlatformTwitter, "pump"), mention(contracts.PlatformTwitter, "moon")},
		}},
	}
	delivery := &fakeDelivery{byTicker: map[string]float64{"AAA": 20.0, "BBB": 80.0}}

	o := newTestOrchestrator(quotes, candles, mentions, delivery, &fakeNotifier{configured: true})
	report := o.Scan(context.Background())

	require.Len(t, report.Stocks, 3)
	assert.Equal(t, "AAA.NS", report.Stocks[0].Symbol)
	assert.Equal(t, contracts.StatusAlert, report.Stocks[0].Status)
	assert.Equal(t, "BBB.NS", report.Stocks[1].Symbol)
	assert.Equal(t, contracts.StatusWatch, report.Stocks[1].Status)
	assert.Equal(t, "CCC.NS", report.Stocks[2].Symbol)
	assert.Equal(t, contracts.StatusFiltered, report.Stocks[2].Status)
}

func TestScanOrdersAlertsBySilenceScore(t *testing.T) {
	quotes := &fakeQuotes{
		movers: []contracts.Mover{
			{Symbol: "LOW.NS", Price: 120.5, ChangePercent: 5.0},
			{Symbol: "HIGH.NS", Price: 120.5, ChangePercent: 10.0},
		},
		benchmark: 1.0,
	}
	candles := &fakeCandles{bySymbol: map[string][]contracts.Candle{
		"LOW.NS":  nearR2Candles(),
		"HIGH.NS": nearR2Candles(),
	}}
	delivery := &fakeDelivery{byTicker: map[string]float64{"LOW": 20.0, "HIGH": 20.0}}

	o := newTestOrchestrator(quotes, candles, nil, delivery, &fakeNotifier{configured: true})
	report := o.Scan(context.Background())

	require.Len(t, report.Stocks, 2)
	assert.Equal(t, "HIGH.NS", report.Stocks[0].Symbol)
	assert.Equal(t, "LOW.NS", report.Stocks[1].Symbol)
	assert.Greater(t, report.Stocks[0].SilenceScore, report.Stocks[1].SilenceScore)
}

func TestScanNoMoversShortCircuits(t *testing.T) {
	quotes := &fakeQuotes{benchmark: 1.2}

	o := newTestOrchestrator(quotes, &fakeCandles{}, nil, &fakeDelivery{}, &fakeNotifier{})
	report := o.Scan(context.Background())

	assert.Empty(t, report.Error)
	assert.Empty(t, report.Stocks)
	assert.Equal(t, 0, report.TotalScanned)
	assert.Equal(t, 0, report.AlertsSent)
	assert.Equal(t, 1.2, report.BenchmarkChangePercent)
}

func TestScanWholeCycleFailure(t *testing.T) {
	quotes := &fakeQuotes{moversErr: errors.New("quote api: 503")}

	o := newTestOrchestrator(quotes, &fakeCandles{}, nil, &fakeDelivery{}, &fakeNotifier{})
	report := o.Scan(context.Background())

	assert.Contains(t, report.Error, "503")
	assert.Empty(t, report.Stocks)
	assert.Equal(t, 0, report.TotalScanned)
	assert.Equal(t, 0, report.AlertsSent)
	assert.Equal(t, 0.0, report.BenchmarkChangePercent)
	assert.False(t, report.ScannedAt.IsZero())
}

func TestScanBenchmarkFailureIsNeutral(t *testing.T) {
	quotes := &fakeQuotes{
		movers:   []contracts.Mover{{Symbol: "ITC.NS", Price: 100, ChangePercent: 5.0}},
		benchErr: errors.New("benchmark unavailable"),
	}
	candles := &fakeCandles{err: errors.New("candles down")}

	o := newTestOrchestrator(quotes, candles, nil, &fakeDelivery{}, &fakeNotifier{})
	report := o.Scan(context.Background())

	// Benchmark and pivot failures degrade to neutral values, not errors
	require.Empty(t, report.Error)
	require.Len(t, report.Stocks, 1)
	assert.Equal(t, 0.0, report.BenchmarkChangePercent)

	s := report.Stocks[0]
	assert.False(t, s.Pivots.Valid)
	assert.Equal(t, contracts.DeliveryUnavailable, s.DeliveryPercent)
	// sector outperformance against a zero benchmark is the raw change
	assert.Equal(t, 5.0, s.SectorOutperformance)
}
