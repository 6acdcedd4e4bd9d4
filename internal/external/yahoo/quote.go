package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/surgescan/backend/internal/contracts"
)

// quoteResponse mirrors the v7 quote endpoint payload
type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName"`
	LongName                   string  `json:"longName"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`
	MarketCap                  float64 `json:"marketCap"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchMovers returns the universe symbols whose change% meets
// minChangePercent, sorted descending by change%.
func (c *Client) FetchMovers(ctx context.Context, symbols []string, minChangePercent float64) ([]contracts.Mover, error) {
	if len(symbols) == 0 {
		return []contracts.Mover{}, nil
	}

	fullURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		c.baseURL, url.QueryEscape(strings.Join(symbols, ",")))

	body, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("quote fetch failed: %w", err)
	}

	movers, err := parseMovers(body, minChangePercent)
	if err != nil {
		return nil, fmt.Errorf("quote parse failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"movers":    len(movers),
	}).Debug("Fetched movers")
	return movers, nil
}

// parseMovers decodes a quote payload and keeps qualifying movers
func parseMovers(body []byte, minChangePercent float64) ([]contracts.Mover, error) {
	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, err
	}
	if qr.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("api error: %s", qr.QuoteResponse.Error.Description)
	}

	movers := make([]contracts.Mover, 0, len(qr.QuoteResponse.Result))
	for _, r := range qr.QuoteResponse.Result {
		if r.RegularMarketChangePercent < minChangePercent {
			continue
		}

		name := r.ShortName
		if name == "" {
			name = r.LongName
		}

		movers = append(movers, contracts.Mover{
			Symbol:        r.Symbol,
			Name:          name,
			Price:         r.RegularMarketPrice,
			Change:        r.RegularMarketChange,
			ChangePercent: r.RegularMarketChangePercent,
			Volume:        r.RegularMarketVolume,
			MarketCap:     r.MarketCap,
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].ChangePercent > movers[j].ChangePercent
	})

	return movers, nil
}

// FetchBenchmarkChange returns the change% of the benchmark index
func (c *Client) FetchBenchmarkChange(ctx context.Context, symbol string) (float64, error) {
	fullURL := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	body, err := c.get(ctx, fullURL)
	if err != nil {
		return 0, fmt.Errorf("benchmark fetch failed: %w", err)
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return 0, fmt.Errorf("benchmark parse failed: %w", err)
	}
	if len(qr.QuoteResponse.Result) == 0 {
		return 0, fmt.Errorf("benchmark symbol %s not found", symbol)
	}

	return qr.QuoteResponse.Result[0].RegularMarketChangePercent, nil
}
