package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// TelegramNotifier delivers reminders through the Telegram Bot API. The bot
// runs in offline mode: it only sends and never polls for updates.
type TelegramNotifier struct {
	bot *telebot.Bot
}

type TelegramOption func(*telebot.Settings)

// WithAPIURL points the bot at a different Bot API server.
func WithAPIURL(url string) TelegramOption {
	return func(settings *telebot.Settings) {
		settings.URL = url
	}
}

func NewTelegramNotifier(token string, options ...TelegramOption) (*TelegramNotifier, error) {
	settings := telebot.Settings{
		Token:   token,
		Offline: true,
	}
	for _, option := range options {
		option(&settings)
	}

	bot, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, chatID int64, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := notifier.bot.Send(telebot.ChatID(chatID), message); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

// LogNotifier stands in when no bot token is configured. Messages are only
// logged.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (notifier *LogNotifier) Notify(ctx context.Context, chatID int64, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	notifier.log.WithField("chat_id", chatID).Debugf("reminder not sent, telegram disabled: %s", message)
	return nil
}
