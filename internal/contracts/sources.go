package contracts

import "context"

// QuoteSource provides quotes for the tracked universe and the benchmark.
// FetchMovers is the whole-cycle failure path: an error here fails the scan.
type QuoteSource interface {
	// FetchMovers returns the symbols whose change% meets minChangePercent,
	// sorted descending by change%.
	FetchMovers(ctx context.Context, symbols []string, minChangePercent float64) ([]Mover, error)

	// FetchBenchmarkChange returns the benchmark index change%
	FetchBenchmarkChange(ctx context.Context, symbol string) (float64, error)
}

// CandleSource provides completed daily bars; the screener needs only the
// last two.
type CandleSource interface {
	FetchDailyCandles(ctx context.Context, symbol string, days int) ([]Candle, error)
}

// MentionSource is a social-media adapter. Implementations never fail:
// transport errors, malformed payloads and missing credentials all surface
// as an empty slice.
type MentionSource interface {
	Platform() Platform
	FetchMentions(ctx context.Context, ticker string) []Mention
}

// DeliverySource returns the delivery percentage for a ticker, or
// DeliveryUnavailable. It never fails.
type DeliverySource interface {
	FetchDeliveryPercent(ctx context.Context, ticker string) float64
}

// Notifier is the outbound alert channel
type Notifier interface {
	// Configured reports whether credentials are present; an unconfigured
	// notifier must fail Send instead of panicking.
	Configured() bool

	Send(ctx context.Context, message string) error
}
