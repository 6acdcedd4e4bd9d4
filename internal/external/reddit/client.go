// Package reddit surfaces recent posts mentioning a ticker via the public
// search endpoint. No credentials are required; Reddit only asks for a
// descriptive User-Agent.
package reddit

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

// Client is the Reddit mention source
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	userAgent  string
	cache      *cache.TTL[[]contracts.Mention]
}

// NewClient creates a new Reddit client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, userAgent string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://www.reddit.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		userAgent:  userAgent,
		cache:      cache.NewTTL[[]contracts.Mention](cacheTTL),
	}
}

// Platform identifies this source
func (c *Client) Platform() contracts.Platform {
	return contracts.PlatformReddit
}

// listingResponse mirrors the search.json payload
type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				Author     string  `json:"author"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchMentions returns recent posts mentioning ticker. It never fails.
func (c *Client) FetchMentions(ctx context.Context, ticker string) []contracts.Mention {
	if cached, ok := c.cache.Get(ticker); ok {
		return cached
	}

	fullURL := fmt.Sprintf("%s/search.json?q=%s&sort=new&t=day&limit=25",
		c.baseURL, url.QueryEscape(ticker))

	mentions, err := c.fetch(ctx, fullURL, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Reddit fetch failed")
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
	req.Header.Set("User-Agent", c.userAgent)

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

	return c.parseMentions(body, ticker)
}

// parseMentions decodes a listing and keeps posts where the ticker appears
// as a standalone token in the title or body.
func (c *Client) parseMentions(body []byte, ticker string) ([]contracts.Mention, error) {
	var lr listingResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	matcher := social.NewMatcher(ticker)
	mentions := make([]contracts.Mention, 0, len(lr.Data.Children))
	for _, child := range lr.Data.Children {
		post := child.Data
		if !matcher.Matches(post.Title) && !matcher.Matches(post.Selftext) {
			continue
		}

		m := contracts.Mention{
			Platform: contracts.PlatformReddit,
			Title:    social.Truncate(post.Title, maxTitleLen),
			URL:      c.baseURL + post.Permalink,
			Author:   post.Author,
		}
		if post.CreatedUTC > 0 {
			m.PostedAt = time.Unix(int64(post.CreatedUTC), 0).UTC()
		}
		mentions = append(mentions, m)
	}

	return mentions, nil
}
