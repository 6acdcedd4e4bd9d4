// Package contracts defines the data model and the collaborator interfaces
// shared by the screening pipeline and the external adapters.
package contracts

import "time"

// Platform identifies a social-media mention source
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformReddit   Platform = "reddit"
	PlatformTelegram Platform = "telegram"
)

// Mention is one social-media post referencing a ticker.
// URL, when present, points at the original post.
type Mention struct {
	Platform Platform  `json:"platform"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Author   string    `json:"author,omitempty"`
	PostedAt time.Time `json:"posted_at,omitempty"`
}

// Mover is a candidate equity for the current scan cycle. Constructed fresh
// from the universe quote fetch and immutable afterwards.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
}

// Candle is one completed daily OHLC bar
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PivotLevels holds the classic pivot levels derived from the previous
// completed session. Valid is false when candle data was unavailable; all
// other fields are then zero.
type PivotLevels struct {
	PrevHigh    float64 `json:"prev_high"`
	PrevLow     float64 `json:"prev_low"`
	PrevClose   float64 `json:"prev_close"`
	Pivot       float64 `json:"pivot"`
	R1          float64 `json:"r1"`
	R2          float64 `json:"r2"`
	R2Proximity float64 `json:"r2_proximity"` // |price-r2|/r2*100
	NearR2      bool    `json:"near_r2"`
	Valid       bool    `json:"valid"`
}

// DeliveryUnavailable is the sentinel for a missing delivery percentage
const DeliveryUnavailable = -1.0

// Criteria holds the four threshold-gated screening flags
type Criteria struct {
	PassesDelivery bool `json:"passes_delivery"`
	PassesR2       bool `json:"passes_r2"`
	PassesSector   bool `json:"passes_sector"`
	PassesMentions bool `json:"passes_mentions"`
}

// PassCount returns how many of the four criteria passed
func (c Criteria) PassCount() int {
	n := 0
	for _, pass := range []bool{c.PassesDelivery, c.PassesR2, c.PassesSector, c.PassesMentions} {
		if pass {
			n++
		}
	}
	return n
}

// Status is the tri-state classification of a mover
type Status string

const (
	StatusAlert    Status = "alert"
	StatusWatch    Status = "watch"
	StatusFiltered Status = "filtered"
)

// Priority returns the sort rank of a status (alert first)
func (s Status) Priority() int {
	switch s {
	case StatusAlert:
		return 0
	case StatusWatch:
		return 1
	default:
		return 2
	}
}

// EnrichedStock is a Mover plus all aggregated signals and the final
// classification for one scan cycle.
type EnrichedStock struct {
	Mover

	Mentions         []Mention `json:"mentions"`
	TwitterMentions  int       `json:"twitter_mentions"`
	RedditMentions   int       `json:"reddit_mentions"`
	TelegramMentions int       `json:"telegram_mentions"`
	TotalMentions    int       `json:"total_mentions"`

	// SilenceScore favors large moves with low chatter:
	// round2(change% / (1 + total mentions))
	SilenceScore float64 `json:"silence_score"`

	DeliveryPercent      float64     `json:"delivery_percent"` // -1 when unavailable
	Pivots               PivotLevels `json:"pivots"`
	SectorOutperformance float64     `json:"sector_outperformance"`

	Criteria  Criteria `json:"criteria"`
	Status    Status   `json:"status"`
	AlertSent bool     `json:"alert_sent"`
}

// ScanReport is the full result of one scan cycle. On whole-cycle failure
// Stocks is empty, counts are zero and Error carries the cause; callers
// always receive a well-formed report.
type ScanReport struct {
	Stocks                 []EnrichedStock `json:"stocks"`
	ScannedAt              time.Time       `json:"scanned_at"`
	TotalScanned           int             `json:"total_scanned"`
	AlertsSent             int             `json:"alerts_sent"`
	BenchmarkChangePercent float64         `json:"benchmark_change_percent"`
	Error                  string          `json:"error,omitempty"`
}
