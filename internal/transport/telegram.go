package transport

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Telegram адаптер Telegram Bot API под интерфейс notify.Sender
type Telegram struct {
	bot *bot.Bot
}

// NewTelegram создаёт адаптер поверх инстанса бота
func NewTelegram(b *bot.Bot) *Telegram {
	return &Telegram{bot: b}
}

// Send отправляет текстовое сообщение в чат
func (t *Telegram) Send(ctx context.Context, chatID any, text string, markdown bool) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markdown {
		params.ParseMode = models.ParseModeMarkdown
	}

	_, err := t.bot.SendMessage(ctx, params)
	return err
}
