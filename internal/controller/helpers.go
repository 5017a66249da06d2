package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/schedule"
)

// answerCallback отвечает на callback query (без alert)
func (c *Controller) answerCallback(ctx context.Context, callbackID string, text string) {
	c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// answerCallbackAlert отвечает на callback query с всплывающим окном
func (c *Controller) answerCallbackAlert(ctx context.Context, callbackID string, text string) {
	c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// userInfoFrom собирает данные пользователя из Telegram-профиля
func userInfoFrom(from models.User) model.UserInfo {
	return model.UserInfo{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}

// editOrSend редактирует сообщение, а при его отсутствии отправляет новое
func (c *Controller) editOrSend(ctx context.Context, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) {
	if messageID != 0 {
		params := &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
		}
		if keyboard != nil {
			params.ReplyMarkup = keyboard
		}
		if _, err := c.bot.EditMessageText(ctx, params); err == nil {
			return
		}
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	c.bot.SendMessage(ctx, params)
}

// sendText отправляет простое текстовое сообщение
func (c *Controller) sendText(ctx context.Context, chatID int64, text string) {
	c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}

// button создаёт inline кнопку
func button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// keyboard собирает inline клавиатуру из рядов кнопок
func keyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// durationLabel человекочитаемая метка длительности
func durationLabel(d model.Duration) string {
	if d == model.DurationDouble {
		return "2 часа"
	}
	return "1 час"
}

// slotLabel метка слота по индексу
func slotLabel(index int) string {
	if slot, ok := schedule.SlotByIndex(index); ok {
		return slot.Label
	}
	return fmt.Sprintf("слот %d", index)
}

// parseSlotCallback разбирает данные вида "slot:2025-01-02:3"
func parseSlotCallback(data, prefix string) (date string, slotIndex int, err error) {
	parts := strings.Split(strings.TrimPrefix(data, prefix), ":")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid slot callback data %q", data)
	}
	slotIndex, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid slot index in callback data %q: %w", data, err)
	}
	return parts[0], slotIndex, nil
}
