package screener

import (
	"math"

	"github.com/surgescan/backend/internal/contracts"
)

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputePivots derives the classic floor-trader levels from the prior
// completed session and measures how close price sits to R2:
//
//	pivot = (high + low + close) / 3
//	r1    = 2*pivot - low
//	r2    = pivot + (high - low)
//
// nearPct is the proximity threshold in percent ("near R2" when
// |price-r2|/r2*100 <= nearPct).
func ComputePivots(prev contracts.Candle, price, nearPct float64) contracts.PivotLevels {
	pivot := (prev.High + prev.Low + prev.Close) / 3
	r2 := pivot + (prev.High - prev.Low)
	if r2 <= 0 {
		return contracts.PivotLevels{}
	}

	proximity := math.Abs(price-r2) / r2 * 100

	return contracts.PivotLevels{
		PrevHigh:    prev.High,
		PrevLow:     prev.Low,
		PrevClose:   prev.Close,
		Pivot:       pivot,
		R1:          2*pivot - prev.Low,
		R2:          r2,
		R2Proximity: Round2(proximity),
		NearR2:      proximity <= nearPct,
		Valid:       true,
	}
}

// SilenceScore favors large price moves with low social attention.
// The denominator is always >= 1, so the score is defined for any
// non-negative mention count.
func SilenceScore(changePercent float64, totalMentions int) float64 {
	return Round2(changePercent / float64(1+totalMentions))
}
