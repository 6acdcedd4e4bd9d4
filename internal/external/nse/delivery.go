// Package nse fetches delivery-quantity data from the NSE trade-info
// endpoint. Low delivery percentages mark speculative intraday churn.
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/cache"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

// Client is the delivery-percentage source. It never fails: any transport or
// parse problem yields the DeliveryUnavailable sentinel.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	cache      *cache.TTL[float64]
}

// NewClient creates a new NSE delivery client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		cache:      cache.NewTTL[float64](cacheTTL),
	}
}

// tradeInfoResponse mirrors the quote-equity trade_info payload
type tradeInfoResponse struct {
	SecurityWiseDP struct {
		DeliveryToTradedQuantity float64 `json:"deliveryToTradedQuantity"`
		QuantityTraded           int64   `json:"quantityTraded"`
		DeliveryQuantity         int64   `json:"deliveryQuantity"`
	} `json:"securityWiseDP"`
}

// FetchDeliveryPercent returns the delivery percentage for ticker, or
// contracts.DeliveryUnavailable.
func (c *Client) FetchDeliveryPercent(ctx context.Context, ticker string) float64 {
	if cached, ok := c.cache.Get(ticker); ok {
		return cached
	}

	fullURL := fmt.Sprintf("%s/api/quote-equity?symbol=%s&section=trade_info",
		c.baseURL, url.QueryEscape(ticker))

	pct, err := c.fetch(ctx, fullURL)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Delivery fetch failed")
		return contracts.DeliveryUnavailable
	}

	c.cache.Set(ticker, pct)
	return pct
}

func (c *Client) fetch(ctx context.Context, fullURL string) (float64, error) {
	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseDeliveryPercent(body)
}

// parseDeliveryPercent extracts the delivery-to-traded ratio
func parseDeliveryPercent(body []byte) (float64, error) {
	var ti tradeInfoResponse
	if err := json.Unmarshal(body, &ti); err != nil {
		return 0, fmt.Errorf("parse failed: %w", err)
	}

	pct := ti.SecurityWiseDP.DeliveryToTradedQuantity
	if pct <= 0 {
		// Derive from raw quantities when the ratio field is absent
		if ti.SecurityWiseDP.QuantityTraded > 0 && ti.SecurityWiseDP.DeliveryQuantity > 0 {
			pct = float64(ti.SecurityWiseDP.DeliveryQuantity) / float64(ti.SecurityWiseDP.QuantityTraded) * 100
		}
	}
	if pct <= 0 || pct > 100 {
		return 0, fmt.Errorf("delivery percentage out of range: %v", pct)
	}

	return pct, nil
}
