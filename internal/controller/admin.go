package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// isAdmin проверяет что сообщение пришло от администратора
func (c *Controller) isAdmin(userID int64) bool {
	return c.adminID != 0 && userID == c.adminID
}

// HandleDatabase выгружает все записи для администратора
func (c *Controller) HandleDatabase(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !c.isAdmin(update.Message.From.ID) {
		c.sendText(ctx, chatID, "❌ Эта команда доступна только администратору.")
		return
	}

	all := c.reservations.All()
	if len(all) == 0 {
		c.sendText(ctx, chatID, "📂 База данных пуста.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📂 Все записи (%d):\n\n", len(all)))
	for _, r := range all {
		sb.WriteString(fmt.Sprintf("🔑 %s\n👤 %s (ID: %d)\n📅 %s %s\n🎓 %s\n🕓 Создана: %s\n",
			r.Key().String(),
			r.UserInfo.Display(),
			r.UserID,
			r.Date,
			r.Time,
			r.MentorName,
			r.BookedAt,
		))
		if r.Company != "" {
			sb.WriteString(fmt.Sprintf("🏢 %s\n", r.Company))
		}
		sb.WriteString("\n")
	}

	c.sendText(ctx, chatID, sb.String())
	c.logger.Info("Database dump requested", zap.Int64("admin_id", update.Message.From.ID))
}

// HandleCleanup проверяет хранилище и удаляет некорректные записи
func (c *Controller) HandleCleanup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !c.isAdmin(update.Message.From.ID) {
		c.sendText(ctx, chatID, "❌ Эта команда доступна только администратору.")
		return
	}

	removed, err := c.reservations.ValidateAndClean(ctx)
	if err != nil {
		c.logger.Error("Cleanup failed", zap.Error(err))
		c.sendText(ctx, chatID, "❌ Не удалось выполнить очистку: "+err.Error())
		return
	}

	if removed == 0 {
		c.sendText(ctx, chatID, "✅ Все записи корректны, удалять нечего.")
	} else {
		c.sendText(ctx, chatID, fmt.Sprintf("🧹 Удалено некорректных записей: %d", removed))
	}
	c.logger.Info("Cleanup completed",
		zap.Int64("admin_id", update.Message.From.ID),
		zap.Int("removed", removed))
}

// HandleBroadcast рассылает сообщение всем известным пользователям
func (c *Controller) HandleBroadcast(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !c.isAdmin(update.Message.From.ID) {
		c.sendText(ctx, chatID, "❌ Эта команда доступна только администратору.")
		return
	}

	text := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/broadcast"))
	if text == "" {
		c.sendText(ctx, chatID, "Использование: /broadcast <текст сообщения>")
		return
	}

	users := c.userService.All()
	sent, failed := 0, 0
	for _, u := range users {
		if err := c.notifier.Broadcast(ctx, u.ID, text); err != nil {
			failed++
			c.logger.Warn("Broadcast delivery failed",
				zap.Int64("user_id", u.ID),
				zap.Error(err))
			continue
		}
		sent++
	}

	c.sendText(ctx, chatID, fmt.Sprintf("📣 Рассылка завершена.\n✅ Доставлено: %d\n❌ Ошибок: %d", sent, failed))
	c.logger.Info("Broadcast completed",
		zap.Int64("admin_id", update.Message.From.ID),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
}
