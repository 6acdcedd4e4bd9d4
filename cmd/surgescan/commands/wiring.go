package commands

import (
	"github.com/surgescan/backend/internal/contracts"
	"github.com/surgescan/backend/internal/external/nse"
	"github.com/surgescan/backend/internal/external/reddit"
	"github.com/surgescan/backend/internal/external/telegramfeed"
	"github.com/surgescan/backend/internal/external/twitter"
	"github.com/surgescan/backend/internal/external/yahoo"
	"github.com/surgescan/backend/internal/notify"
	"github.com/surgescan/backend/internal/screener"
	"github.com/surgescan/backend/pkg/config"
	"github.com/surgescan/backend/pkg/httputil"
	"github.com/surgescan/backend/pkg/logger"
)

// buildOrchestrator wires the full screening pipeline from config. The
// AlertedSet lives for the process lifetime, so a long-running mode (api,
// watch) alerts each ticker at most once.
func buildOrchestrator(cfg *config.Config, log *logger.Logger) *screener.Orchestrator {
	// Yahoo and NSE throttle aggressive scanners
	httpClient := httputil.New(log).WithRateLimit(5, 5)

	yahooClient := yahoo.NewClient(httpClient, log, cfg.Quotes.BaseURL)
	nseClient := nse.NewClient(httpClient, log, cfg.NSE.BaseURL, cfg.NSE.CacheTTL)

	mentionSources := []contracts.MentionSource{
		twitter.NewClient(httpClient, log, cfg.Twitter.BaseURL, cfg.Twitter.BearerToken, cfg.Twitter.CacheTTL),
		reddit.NewClient(httpClient, log, cfg.Reddit.BaseURL, cfg.Reddit.UserAgent, cfg.Reddit.CacheTTL),
		telegramfeed.NewClient(httpClient, log, cfg.Telegram.BaseURL, cfg.Telegram.Channels, cfg.Telegram.CacheTTL),
	}

	notifier := notify.NewTelegram(cfg.Notify, log)
	dispatcher := screener.NewDispatcher(notifier, screener.NewAlertedSet(), log)

	return screener.NewOrchestrator(
		cfg.Screener,
		yahooClient,
		yahooClient,
		mentionSources,
		nseClient,
		dispatcher,
		log,
	)
}
