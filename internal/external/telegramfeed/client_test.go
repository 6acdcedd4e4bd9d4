package telegramfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

const channelFixture = `<html><body>
<div class="tgme_widget_message_wrap">
  <div class="tgme_widget_message_text">TCS looking strong into close, volumes picking up</div>
  <a class="tgme_widget_message_date" href="https://t.me/stockalerts/101"><time datetime="2026-08-28T15:10:00+00:00"></time></a>
</div>
<div class="tgme_widget_message_wrap">
  <div class="tgme_widget_message_text">PETROLTCS listed on a new exchange</div>
  <a class="tgme_widget_message_date" href="https://t.me/stockalerts/102"><time datetime="2026-08-28T15:20:00+00:00"></time></a>
</div>
<div class="tgme_widget_message_wrap">
  <a class="tgme_widget_message_date" href="https://t.me/stockalerts/103"></a>
</div>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc, channels []string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(httputil.New(logger.Nop()).DisableRetry(), logger.Nop(), srv.URL, channels, time.Minute)
}

func TestFetchMentions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stockalerts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(channelFixture))
	}, []string{"stockalerts"})

	mentions := c.FetchMentions(context.Background(), "TCS")

	// The second message embeds the ticker in a longer word and the third
	// has no text body
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1", len(mentions))
	}

	m := mentions[0]
	if m.Platform != contracts.PlatformTelegram {
		t.Errorf("Platform = %v", m.Platform)
	}
	if m.URL != "https://t.me/stockalerts/101" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.Author != "stockalerts" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.PostedAt.IsZero() {
		t.Error("PostedAt not set")
	}
}

func TestFetchMentionsNoChannels(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, nil)

	mentions := c.FetchMentions(context.Background(), "TCS")

	if mentions == nil || len(mentions) != 0 {
		t.Errorf("unconfigured adapter should return empty slice, got %v", mentions)
	}
	if calls.Load() != 0 {
		t.Error("unconfigured adapter must not call upstream")
	}
}

func TestFetchMentionsSkipsFailedChannel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/deadchannel" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(channelFixture))
	}, []string{"deadchannel", "stockalerts"})

	mentions := c.FetchMentions(context.Background(), "TCS")

	// One channel down must not sink the other
	if len(mentions) != 1 {
		t.Fatalf("got %d mentions, want 1", len(mentions))
	}
}

func TestFetchMentionsCaches(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(channelFixture))
	}, []string{"stockalerts"})

	ctx := context.Background()
	c.FetchMentions(ctx, "TCS")
	c.FetchMentions(ctx, "TCS")

	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}
}
