// Package twitter surfaces recent tweets mentioning a ticker via the v2
// recent-search endpoint. Without a bearer token the adapter is inert and
// always reports zero mentions.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/internal/social"
	"github.com/surgescan/backend/pkg/cache"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

const maxTitleLen = 120

// Client is the Twitter mention source
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	baseURL     string
	bearerToken string
	cache       *cache.TTL[[]contracts.Mention]
}

// NewClient creates a new Twitter client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, bearerToken string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.twitter.com/2"
	}
	return &Client{
		httpClient:  httpClient,
		logger:      log,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		cache:       cache.NewTTL[[]contracts.Mention](cacheTTL),
	}
}

// Platform identifies this source
func (c *Client) Platform() contracts.Platform {
	return contracts.PlatformTwitter
}

// searchResponse mirrors the recent-search payload
type searchResponse struct {
	Data []struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		AuthorID  string    `json:"author_id"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"data"`
}

// FetchMentions returns recent tweets mentioning ticker. It never fails:
// missing credentials, transport errors and malformed payloads all yield an
// empty slice.
func (c *Client) FetchMentions(ctx context.Context, ticker string) []contracts.Mention {
	if c.bearerToken == "" {
		return []contracts.Mention{}
	}

	if cached, ok := c.cache.Get(ticker); ok {
		return cached
	}

	query := fmt.Sprintf("(%s OR $%s OR #%s) -is:retweet", ticker, ticker, ticker)
	fullURL := fmt.Sprintf("%s/tweets/search/recent?query=%s&max_results=50&tweet.fields=author_id,created_at",
		c.baseURL, url.QueryEscape(query))

	mentions, err := c.fetch(ctx, fullURL, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Twitter fetch failed")
		return []contracts.Mention{}
	}

	c.cache.Set(ticker, mentions)
	return mentions
}

func (c *Client) fetch(ctx context.Context, fullURL, ticker string) ([]contracts.Mention, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseMentions(body, ticker)
}

// parseMentions decodes the search payload and keeps tweets where the
// ticker appears as a standalone token.
func parseMentions(body []byte, ticker string) ([]contracts.Mention, error) {
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	matcher := social.NewMatcher(ticker)
	mentions := make([]contracts.Mention, 0, len(sr.Data))
	for _, tweet := range sr.Data {
		if !matcher.Matches(tweet.Text) {
			continue
		}

		mentions = append(mentions, contracts.Mention{
			Platform: contracts.PlatformTwitter,
			Title:    social.Truncate(tweet.Text, maxTitleLen),
			URL:      "https://twitter.com/i/web/status/" + tweet.ID,
			Author:   tweet.AuthorID,
			PostedAt: tweet.CreatedAt,
		})
	}

	return mentions, nil
}
