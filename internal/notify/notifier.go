package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
	"go.uber.org/zap"
)

// Sender транспорт доставки сообщений. Ядро умеет только "отправить текст
// по идентификатору"; конкретный чат-транспорт подставляется снаружи.
type Sender interface {
	Send(ctx context.Context, chatID any, text string, markdown bool) error
}

// Английские названия дней недели для канала администратора, индекс 0 = Monday
var adminDayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Notifier отправляет уведомления пользователям и в приватный канал
// администратора. Ошибка доставки никогда не откатывает состояние записи.
type Notifier struct {
	sender    Sender
	channelID string
	now       func() time.Time
	logger    *zap.Logger
}

// NewNotifier создаёт notifier; пустой channelID отключает уведомления канала
func NewNotifier(sender Sender, channelID string, now func() time.Time, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:    sender,
		channelID: channelID,
		now:       now,
		logger:    logger,
	}
}

// Reminder отправляет пользователю напоминание о собеседовании
func (n *Notifier) Reminder(ctx context.Context, res *model.Reservation) error {
	text := fmt.Sprintf(
		"🔔 **Напоминание о собеседовании!**\n\n"+
			"📅 Дата: %s\n"+
			"⏰ Время: %s\n\n"+
			"⚠️ **Через 1 час у вас собеседование!**\n\n"+
			"Пожалуйста, не забудьте:\n"+
			"• Прийти за 15 минут до начала\n"+
			"• Быть готовым к интервью\n\n"+
			"Удачи! 🍀",
		FormatDateRussian(res.Date),
		res.Time,
	)
	return n.sendWithFallback(ctx, res.UserID, text)
}

// CancelledByMentor уведомляет студента об отмене его записи ментором
func (n *Notifier) CancelledByMentor(ctx context.Context, res *model.Reservation) error {
	text := fmt.Sprintf(
		"❌ **Ваша запись отменена**\n\n"+
			"📅 Дата: %s\n"+
			"⏰ Время: %s\n\n"+
			"Ментор %s отменил собеседование.\n"+
			"Используйте /start для новой записи.",
		FormatDateRussian(res.Date),
		res.Time,
		res.MentorName,
	)
	return n.sendWithFallback(ctx, res.UserID, text)
}

// BookingLog отправляет в канал администратора уведомление о новой записи
func (n *Notifier) BookingLog(ctx context.Context, res *model.Reservation) error {
	text := fmt.Sprintf(
		"📅 **New Interview Booking**\n\n"+
			"👤 **User:** %s\n"+
			"📅 **Date:** %s\n"+
			"⏰ **Time:** %s\n"+
			"🎓 **Mentor:** %s\n"+
			"⏳ **Duration:** %s\n"+
			"🆔 **User ID:** %d\n"+
			"📝 **Booked at:** %s",
		res.UserInfo.Display(),
		formatDateEnglish(res.Date),
		res.Time,
		res.MentorName,
		res.Duration,
		res.UserID,
		n.now().Format("02.01.2006 15:04:05"),
	)
	return n.sendToChannel(ctx, text)
}

// CancellationLog отправляет в канал администратора уведомление об отмене
func (n *Notifier) CancellationLog(ctx context.Context, res *model.Reservation) error {
	text := fmt.Sprintf(
		"❌ **Interview Booking Cancelled**\n\n"+
			"👤 **User:** %s\n"+
			"📅 **Date:** %s\n"+
			"⏰ **Time:** %s\n"+
			"🎓 **Mentor:** %s\n"+
			"🆔 **User ID:** %d\n"+
			"📝 **Cancelled at:** %s",
		res.UserInfo.Display(),
		formatDateEnglish(res.Date),
		res.Time,
		res.MentorName,
		res.UserID,
		n.now().Format("02.01.2006 15:04:05"),
	)
	return n.sendToChannel(ctx, text)
}

// ReminderLog отправляет в канал администратора уведомление об отправленном
// напоминании
func (n *Notifier) ReminderLog(ctx context.Context, res *model.Reservation) error {
	text := fmt.Sprintf(
		"🔔 **Reminder Sent**\n\n"+
			"👤 **User:** %s\n"+
			"📅 **Date:** %s\n"+
			"⏰ **Time:** %s\n"+
			"🆔 **User ID:** %d",
		res.UserInfo.Display(),
		formatDateEnglish(res.Date),
		res.Time,
		res.UserID,
	)
	return n.sendToChannel(ctx, text)
}

// Broadcast отправляет произвольный текст пользователю (рассылка администратора)
func (n *Notifier) Broadcast(ctx context.Context, userID int64, text string) error {
	return n.sendWithFallback(ctx, userID, text)
}

// sendWithFallback отправляет Markdown-сообщение, при ошибке доставки
// повторяет один раз в виде простого текста
func (n *Notifier) sendWithFallback(ctx context.Context, chatID any, text string) error {
	err := n.sender.Send(ctx, chatID, text, true)
	if err == nil {
		return nil
	}

	n.logger.Warn("Markdown delivery failed, retrying as plain text",
		zap.Any("chat_id", chatID),
		zap.Error(err))

	if err := n.sender.Send(ctx, chatID, stripMarkdown(text), false); err != nil {
		return fmt.Errorf("send plain text fallback: %w", err)
	}
	return nil
}

func (n *Notifier) sendToChannel(ctx context.Context, text string) error {
	if n.channelID == "" {
		return nil
	}
	return n.sendWithFallback(ctx, n.channelID, text)
}

// stripMarkdown убирает разметку для деградированного текстового варианта
func stripMarkdown(text string) string {
	return strings.NewReplacer("**", "", "*", "", "`", "").Replace(text)
}

func formatDateEnglish(date string) string {
	return formatDate(date, adminDayNames)
}

// Русские названия дней недели для пользовательских сообщений
var userDayNames = []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

// FormatDateRussian форматирует дату как "DD.MM День_недели" для
// пользовательских сообщений
func FormatDateRussian(date string) string {
	return formatDate(date, userDayNames)
}

func formatDate(date string, names []string) string {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", day.Format("02.01"), names[(int(day.Weekday())+6)%7])
}
