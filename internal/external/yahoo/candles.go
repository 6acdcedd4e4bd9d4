package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/surgescan/backend/internal/contracts"
)

// chartResponse mirrors the v8 chart endpoint payload
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// FetchDailyCandles returns up to days daily OHLC bars, oldest first
func (c *Client) FetchDailyCandles(ctx context.Context, symbol string, days int) ([]contracts.Candle, error) {
	if days <= 0 {
		days = 5
	}

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d",
		c.baseURL, url.PathEscape(symbol), days)

	body, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("chart fetch failed: %w", err)
	}

	candles, err := parseCandles(body)
	if err != nil {
		return nil, fmt.Errorf("chart parse failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(candles),
	}).Debug("Fetched daily candles")
	return candles, nil
}

// parseCandles decodes a chart payload into completed daily bars.
// Rows with missing OHLC values (half-filled sessions) are skipped.
func parseCandles(body []byte) ([]contracts.Candle, error) {
	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, err
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	result := cr.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]contracts.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		if quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		candle := contracts.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  quote.Open[i],
			High:  quote.High[i],
			Low:   quote.Low[i],
			Close: quote.Close[i],
		}
		if i < len(quote.Volume) {
			candle.Volume = quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	return candles, nil
}
