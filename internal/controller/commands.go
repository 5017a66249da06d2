package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mentorlink/interview_bot/internal/controller/state"
	"github.com/mentorlink/interview_bot/internal/notify"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (c *Controller) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := c.userService.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		c.logger.Error("Failed to register user", zap.Int64("user_id", from.ID), zap.Error(err))
		c.sendText(ctx, chatID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	if mentor, ok := c.mentorService.MentorForUser(from.ID); ok {
		c.sendText(ctx, chatID, fmt.Sprintf(
			"👋 Привет, %s!\n\n"+
				"Вы ментор. Записи ваших студентов: /mybookings",
			mentor.Name,
		))
		return
	}

	// Без выбранного ментора слоты не показываются
	if _, ok := c.mentorService.PermanentMentor(from.ID); !ok {
		c.sendMentorPrompt(ctx, chatID, 0, fmt.Sprintf(
			"Привет, %s! 👋\n\n"+
				"Добро пожаловать в систему записи на собеседование!\n\n"+
				"🎓 Сначала выберите вашего ментора:",
			user.FirstName,
		))
		return
	}

	welcome := fmt.Sprintf(
		"Привет, %s! 👋\n\n"+
			"Добро пожаловать в систему записи на собеседование!\n\n"+
			"📅 Выберите удобную дату для собеседования:",
		user.FirstName,
	)
	c.renderDates(ctx, chatID, 0, 0, welcome)
}

// HandleHelp обрабатывает команду /help
func (c *Controller) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "🤖 Справка по боту\n\n" +
		"Доступные команды:\n" +
		"• /start - Записаться на собеседование\n" +
		"• /mybookings - Посмотреть ваши записи\n" +
		"• /mentor - Посмотреть или сменить ментора\n" +
		"• /help - Показать эту справку\n\n" +
		"Как записаться:\n" +
		"1. Используйте /start\n" +
		"2. Выберите ментора (один раз, потом он сохраняется)\n" +
		"3. Выберите удобную дату\n" +
		"4. Выберите свободное время и длительность\n" +
		"5. Укажите компанию и подтвердите запись\n\n" +
		"Напоминания:\n" +
		"За 1 час до собеседования вы получите автоматическое напоминание.\n\n" +
		"Отмена записи:\n" +
		"Используйте /mybookings для просмотра и отмены ваших записей."

	c.sendText(ctx, update.Message.Chat.ID, helpText)
}

// HandleMyBookings обрабатывает команду /mybookings.
// Ментор видит записи своих студентов, студент - свои.
func (c *Controller) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if mentor, ok := c.mentorService.MentorForUser(from.ID); ok {
		reservations := c.reservations.AllForMentor(mentor.ID)
		if len(reservations) == 0 {
			c.sendText(ctx, chatID, "У ваших студентов пока нет записей.")
			return
		}

		text := "📋 Записи ваших студентов:\n\n"
		var rows [][]models.InlineKeyboardButton
		for _, res := range reservations {
			text += fmt.Sprintf("📅 %s | ⏰ %s | 👤 %s\n",
				notify.FormatDateRussian(res.Date), res.Time, res.UserInfo.Display())
			rows = append(rows, []models.InlineKeyboardButton{
				button(
					fmt.Sprintf("❌ Отменить %s %s", notify.FormatDateRussian(res.Date), res.Time),
					cbCancelBooking+res.Key().String(),
				),
			})
		}

		c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: keyboard(rows...),
		})
		return
	}

	reservations := c.reservations.AllForUser(from.ID)
	if len(reservations) == 0 {
		c.sendText(ctx, chatID, "У вас пока нет записей на собеседование.")
		return
	}

	text := "📋 Ваши записи на собеседование:\n\n"
	var rows [][]models.InlineKeyboardButton
	for _, res := range reservations {
		text += fmt.Sprintf("📅 %s | ⏰ %s | 🎓 %s\n",
			notify.FormatDateRussian(res.Date), res.Time, res.MentorName)
		rows = append(rows, []models.InlineKeyboardButton{
			button(
				fmt.Sprintf("❌ Отменить %s %s", notify.FormatDateRussian(res.Date), res.Time),
				cbCancelBooking+res.Key().String(),
			),
		})
	}

	c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard(rows...),
	})
}

// HandleMentor обрабатывает команду /mentor
func (c *Controller) HandleMentor(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if mentor, ok := c.mentorService.PermanentMentor(from.ID); ok {
		c.sendMentorPrompt(ctx, chatID, 0, fmt.Sprintf(
			"🎓 Ваш ментор: %s\n\nВыберите нового, если хотите сменить:",
			mentor.Display(),
		))
		return
	}

	c.sendMentorPrompt(ctx, chatID, 0, "🎓 Ментор ещё не выбран. Выберите вашего ментора:")
}

// HandleCancelDialog обрабатывает команду /cancel - отмена текущего диалога
func (c *Controller) HandleCancelDialog(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if c.states.GetState(telegramID) == state.StateNone {
		if _, pending := c.states.Booking(telegramID); !pending {
			c.sendText(ctx, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
			return
		}
	}

	c.states.Clear(telegramID)
	c.sendText(ctx, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /start для новой записи.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от
// состояния пользователя
func (c *Controller) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	if c.states.GetState(telegramID) != state.StateEnteringCompany {
		return
	}

	booking, ok := c.states.Booking(telegramID)
	if !ok {
		c.states.Clear(telegramID)
		c.sendText(ctx, update.Message.Chat.ID,
			"❌ Сессия бронирования истекла. Начните заново: /start")
		return
	}

	booking.Company = strings.TrimSpace(update.Message.Text)
	c.states.SetBooking(telegramID, booking)
	c.states.SetState(telegramID, state.StateNone)

	c.renderConfirmation(ctx, update.Message.Chat.ID, 0, booking)
}
