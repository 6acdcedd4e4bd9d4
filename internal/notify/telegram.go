// Package notify delivers alert messages to the configured Telegram chat.
package notify

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/surgescan/backend/pkg/config"
	"github.com/surgescan/backend/pkg/logger"
)

// ErrNotConfigured is returned by Send when the bot credentials are missing
var ErrNotConfigured = errors.New("telegram notifier not configured")

// Telegram sends alert messages through the Bot API. A missing token or
// chat ID yields an unconfigured instance whose Send always fails; the
// screening pipeline keeps running and simply skips delivery.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logger.Logger
}

// NewTelegram creates the notifier from config. Credential problems are
// logged, not fatal.
func NewTelegram(cfg config.NotifyConfig, log *logger.Logger) *Telegram {
	t := &Telegram{logger: log}

	if cfg.BotToken == "" || cfg.ChatID == "" {
		log.Info("Telegram notifier disabled, alerts will not be delivered")
		return t
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		log.WithError(err).Warn("Invalid Telegram chat ID, notifier disabled")
		return t
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.WithError(err).Warn("Telegram bot init failed, notifier disabled")
		return t
	}

	t.bot = bot
	t.chatID = chatID
	log.WithField("bot", bot.Self.UserName).Info("Telegram notifier ready")
	return t
}

// Configured reports whether the notifier can deliver messages
func (t *Telegram) Configured() bool {
	return t.bot != nil
}

// Send delivers one plain-text message to the configured chat
func (t *Telegram) Send(ctx context.Context, message string) error {
	if t.bot == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, message)
	if _, err := t.bot.Send(msg); err != nil {
		return err
	}
	return nil
}
