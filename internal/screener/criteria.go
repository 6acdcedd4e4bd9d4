package screener

import (
	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/config"
)

// Evaluate derives the four screening flags from an enriched stock.
// Pure function; deterministic given its inputs.
func Evaluate(s contracts.EnrichedStock, cfg config.ScreenerConfig) contracts.Criteria {
	return contracts.Criteria{
		// Delivery data present and low enough to look speculative
		PassesDelivery: s.DeliveryPercent >= 0 && s.DeliveryPercent < cfg.MaxDeliveryPercent,

		// Price pressing against the second resistance level
		PassesR2: s.Pivots.NearR2,

		// Move exceeds the benchmark by the required margin
		PassesSector: s.SectorOutperformance >= cfg.MinSectorOutperformance,

		// Little to no social chatter
		PassesMentions: s.TotalMentions <= cfg.MaxMentions,
	}
}

// Classify reduces the four criteria to the tri-state status:
// all four pass -> alert, two or three -> watch, otherwise filtered.
// Status is recomputed fresh every cycle; there is no hysteresis.
func Classify(c contracts.Criteria) contracts.Status {
	switch n := c.PassCount(); {
	case n == 4:
		return contracts.StatusAlert
	case n >= 2:
		return contracts.StatusWatch
	default:
		return contracts.StatusFiltered
	}
}
