// Package telegramfeed surfaces recent posts mentioning a ticker from public
// Telegram channels. Telegram exposes no search API for channels, so this
// adapter scrapes the public t.me/s preview pages of a configured channel
// list instead.
package telegramfeed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/internal/social"
	"github.com/surgescan/backend/pkg/cache"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

const maxTitleLen = 120

// Client is the Telegram public-channel mention source
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	channels   []string
	cache      *cache.TTL[[]contracts.Mention]
}

// NewClient creates a new Telegram channel scraper. With an empty channel
// list the adapter is inert and always reports zero mentions.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, channels []string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://t.me/s"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		channels:   channels,
		cache:      cache.NewTTL[[]contracts.Mention](cacheTTL),
	}
}

// Platform identifies this source
func (c *Client) Platform() contracts.Platform {
	return contracts.PlatformTelegram
}

// FetchMentions returns recent channel posts mentioning ticker. It never
// fails: an unreachable or unparseable channel contributes zero mentions.
func (c *Client) FetchMentions(ctx context.Context, ticker string) []contracts.Mention {
	if len(c.channels) == 0 {
		return []contracts.Mention{}
	}

	if cached, ok := c.cache.Get(ticker); ok {
		return cached
	}

	matcher := social.NewMatcher(ticker)
	mentions := make([]contracts.Mention, 0)
	for _, channel := range c.channels {
		posts, err := c.fetchChannel(ctx, channel)
		if err != nil {
			c.logger.WithError(err).WithField("channel", channel).Warn("Telegram channel fetch failed")
			continue
		}

		for _, post := range posts {
			if !matcher.Matches(post.text) {
				continue
			}
			mentions = append(mentions, contracts.Mention{
				Platform: contracts.PlatformTelegram,
				Title:    social.Truncate(post.text, maxTitleLen),
				URL:      post.link,
				Author:   channel,
				PostedAt: post.postedAt,
			})
		}
	}

	c.cache.Set(ticker, mentions)
	return mentions
}

// channelPost is one message scraped from a channel preview page
type channelPost struct {
	text     string
	link     string
	postedAt time.Time
}

func (c *Client) fetchChannel(ctx context.Context, channel string) ([]channelPost, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+"/"+channel)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	var posts []channelPost
	doc.Find("div.tgme_widget_message_wrap").Each(func(_ int, sel *goquery.Selection) {
		post := channelPost{
			text: sel.Find(".tgme_widget_message_text").Text(),
		}
		if post.text == "" {
			return
		}

		post.link, _ = sel.Find("a.tgme_widget_message_date").Attr("href")
		if raw, ok := sel.Find("time").Attr("datetime"); ok {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				post.postedAt = ts.UTC()
			}
		}

		posts = append(posts, post)
	})

	return posts, nil
}
