package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Notifier sends operator alerts to a fixed Telegram chat.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
}

// New builds a Notifier from a bot token and target chat id.
func New(token string, chatID int64) (*Notifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Notifier{bot: b, chatID: chatID}, nil
}

// Send delivers one plain-text message.
func (n *Notifier) Send(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message to chat %d: %w", n.chatID, err)
	}
	return nil
}
