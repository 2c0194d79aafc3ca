// Package notify pushes trade notifications to Telegram when a bot token is
// configured.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/pipeline"
)

// Telegram sends trade notifications to a fixed chat
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram creates a notifier; token and chatID must both be set
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// NotifyTrade sends a formatted trade summary
func (t *Telegram) NotifyTrade(_ context.Context, trade *pipeline.TradeResult) error {
	text := fmt.Sprintf(
		"Trade executed: %s %s\nConfidence: %.0f%%\nPosition size: %.1f%%\n\n%s",
		trade.Decision, trade.Symbol, trade.Confidence*100, trade.PositionSize, trade.Rationale,
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}

	t.logger.Debug().Str("symbol", trade.Symbol).Msg("Trade notification sent")
	return nil
}
