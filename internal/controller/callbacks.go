package controller

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mentorlink/interview_bot/internal/controller/state"
	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/notify"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"github.com/mentorlink/interview_bot/internal/service"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================

const (
	cbDate          = "date:"           // date:2025-01-02
	cbDatesPage     = "dates_page:"     // dates_page:1
	cbBackToDates   = "back_to_dates"   //
	cbSlot          = "slot:"           // slot:2025-01-02:3
	cbBusySlot      = "busy_slot"       //
	cbDuration      = "duration:"       // duration:1h | duration:2h
	cbSkipCompany   = "skip_company"    //
	cbConfirm       = "confirm_booking" //
	cbAbort         = "abort_booking"   //
	cbChooseMentor  = "choose_mentor:"  // choose_mentor:2
	cbCancelBooking = "cancel_booking:" // cancel_booking:<ключ записи>
)

const staleSlotText = "❌ Это время уже занято. Пожалуйста, выберите другое время."

// HandleCallbackQuery распределяет callback query по обработчикам
func (c *Controller) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	c.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case strings.HasPrefix(data, cbDate):
		c.handleDateSelection(ctx, callback)
	case strings.HasPrefix(data, cbDatesPage):
		c.handleDatesPage(ctx, callback)
	case data == cbBackToDates:
		c.handleBackToDates(ctx, callback)
	case strings.HasPrefix(data, cbSlot):
		c.handleSlotSelection(ctx, callback)
	case data == cbBusySlot:
		c.answerCallbackAlert(ctx, callback.ID, staleSlotText)
	case strings.HasPrefix(data, cbDuration):
		c.handleDurationSelection(ctx, callback)
	case data == cbSkipCompany:
		c.handleSkipCompany(ctx, callback)
	case data == cbConfirm:
		c.handleConfirmation(ctx, callback)
	case data == cbAbort:
		c.handleAbort(ctx, callback)
	case strings.HasPrefix(data, cbChooseMentor):
		c.handleChooseMentor(ctx, callback)
	case strings.HasPrefix(data, cbCancelBooking):
		c.handleCancellation(ctx, callback)
	default:
		c.answerCallback(ctx, callback.ID, "")
	}
}

// ========================
// Рендеринг экранов
// ========================

// renderDates показывает клавиатуру выбора даты для окна window
func (c *Controller) renderDates(ctx context.Context, chatID int64, messageID int, window int, header string) {
	dates := schedule.CandidateDates(c.now(), window)

	var rows [][]models.InlineKeyboardButton
	for _, day := range dates {
		rows = append(rows, []models.InlineKeyboardButton{
			button(schedule.FormatDate(day), cbDate+schedule.DateKey(day)),
		})
	}

	var nav []models.InlineKeyboardButton
	if window > 0 {
		nav = append(nav, button("← Предыдущие", cbDatesPage+strconv.Itoa(window-1)))
	}
	if window < 2 {
		nav = append(nav, button("Ещё даты →", cbDatesPage+strconv.Itoa(window+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if header == "" {
		header = "📅 Выберите удобную дату для собеседования:"
	}
	c.editOrSend(ctx, chatID, messageID, header, keyboard(rows...))
}

// renderSlots показывает слоты даты с пометками занятости
func (c *Controller) renderSlots(ctx context.Context, chatID int64, messageID int, date string, mentorID int64) {
	availability := c.calc.AvailableSlots(date, mentorID)

	var rows [][]models.InlineKeyboardButton
	for _, a := range availability {
		if a.Single {
			rows = append(rows, []models.InlineKeyboardButton{
				button("✅ "+a.Slot.Label, cbSlot+date+":"+strconv.Itoa(a.Slot.Index)),
			})
		} else {
			rows = append(rows, []models.InlineKeyboardButton{
				button("❌ "+a.Slot.Label+" (Занято)", cbBusySlot),
			})
		}
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("← Назад к датам", cbBackToDates),
	})

	text := fmt.Sprintf(
		"📅 Выбрана дата: %s\n\n⏰ Выберите удобное время:\n\n✅ - Доступно | ❌ - Занято",
		notify.FormatDateRussian(date),
	)
	c.editOrSend(ctx, chatID, messageID, text, keyboard(rows...))
}

// sendMentorPrompt показывает клавиатуру выбора ментора
func (c *Controller) sendMentorPrompt(ctx context.Context, chatID int64, messageID int, header string) {
	var rows [][]models.InlineKeyboardButton
	for _, mentor := range c.mentorService.Mentors() {
		label := fmt.Sprintf("🎓 %s (до %d в день)", mentor.Display(), mentor.DailyCapacity)
		rows = append(rows, []models.InlineKeyboardButton{
			button(label, cbChooseMentor+strconv.FormatInt(mentor.ID, 10)),
		})
	}
	c.editOrSend(ctx, chatID, messageID, header, keyboard(rows...))
}

// renderConfirmation показывает итог бронирования перед подтверждением
func (c *Controller) renderConfirmation(ctx context.Context, chatID int64, messageID int, booking state.PendingBooking) {
	mentorName := ""
	if mentor, ok := c.lookupMentor(booking.MentorID); ok {
		mentorName = mentor.Display()
	}

	text := fmt.Sprintf(
		"📋 Подтверждение записи\n\n"+
			"📅 Дата: %s\n"+
			"⏰ Время: %s\n"+
			"⏳ Длительность: %s\n"+
			"🎓 Ментор: %s\n",
		notify.FormatDateRussian(booking.Date),
		slotLabel(booking.SlotIndex),
		durationLabel(booking.Duration),
		mentorName,
	)
	if booking.Company != "" {
		text += fmt.Sprintf("🏢 Компания: %s\n", booking.Company)
	}
	text += "\nПожалуйста, подтвердите вашу запись:"

	c.editOrSend(ctx, chatID, messageID, text, keyboard(
		[]models.InlineKeyboardButton{
			button("✅ Подтвердить", cbConfirm),
			button("❌ Отменить", cbAbort),
		},
		[]models.InlineKeyboardButton{
			button("← Назад к времени", cbDate+booking.Date),
		},
	))
}

// ========================
// Обработчики шагов бронирования
// ========================

// handleDateSelection шаг выбора даты
func (c *Controller) handleDateSelection(ctx context.Context, callback *models.CallbackQuery) {
	c.answerCallback(ctx, callback.ID, "")

	msg := messageFromCallback(callback)
	if msg == nil {
		return
	}

	date := strings.TrimPrefix(callback.Data, cbDate)
	telegramID := callback.From.ID

	mentor, ok := c.mentorService.PermanentMentor(telegramID)
	if !ok {
		c.sendMentorPrompt(ctx, msg.Chat.ID, msg.ID, "🎓 Сначала выберите вашего ментора:")
		return
	}

	// Вместимость ментора проверяется независимо от занятости слотов
	if c.calc.MentorRemainingCapacity(mentor.ID, date) <= 0 {
		c.renderDates(ctx, msg.Chat.ID, msg.ID, 0, fmt.Sprintf(
			"❌ На %s у ментора %s не осталось мест.\n\nВыберите другую дату:",
			notify.FormatDateRussian(date), mentor.Display()))
		return
	}

	c.states.SetBooking(telegramID, state.PendingBooking{
		MentorID: mentor.ID,
		Date:     date,
	})

	c.renderSlots(ctx, msg.Chat.ID, msg.ID, date, mentor.ID)
}

// handleSlotSelection шаг выбора времени
func (c *Controller) handleSlotSelection(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	date, slotIndex, err := parseSlotCallback(callback.Data, cbSlot)
	if err != nil {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Неверный формат данных")
		return
	}

	telegramID := callback.From.ID
	booking, ok := c.states.Booking(telegramID)
	if !ok || booking.Date != date {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Сессия истекла. Начните заново: /start")
		return
	}

	// Список мог устареть пока пользователь выбирал
	if !c.calc.IsFree(date, booking.MentorID, slotIndex, model.DurationSingle) {
		c.answerCallbackAlert(ctx, callback.ID, staleSlotText)
		c.renderSlots(ctx, msg.Chat.ID, msg.ID, date, booking.MentorID)
		return
	}

	booking.SlotIndex = slotIndex
	booking.Duration = ""
	c.states.SetBooking(telegramID, booking)
	c.answerCallback(ctx, callback.ID, "")

	rows := [][]models.InlineKeyboardButton{
		{button("🕐 1 час", cbDuration+string(model.DurationSingle))},
	}
	if c.calc.IsFree(date, booking.MentorID, slotIndex, model.DurationDouble) {
		rows = append(rows, []models.InlineKeyboardButton{
			button("🕑 2 часа", cbDuration+string(model.DurationDouble)),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("← Назад к времени", cbDate+date),
	})

	text := fmt.Sprintf(
		"📅 Дата: %s\n⏰ Время: %s\n\n⏳ Выберите длительность собеседования:",
		notify.FormatDateRussian(date),
		slotLabel(slotIndex),
	)
	c.editOrSend(ctx, msg.Chat.ID, msg.ID, text, keyboard(rows...))
}

// handleDurationSelection шаг выбора длительности
func (c *Controller) handleDurationSelection(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	duration := model.Duration(strings.TrimPrefix(callback.Data, cbDuration))
	if !duration.Valid() {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Неверный формат данных")
		return
	}

	telegramID := callback.From.ID
	booking, ok := c.states.Booking(telegramID)
	if !ok || booking.Date == "" {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Сессия истекла. Начните заново: /start")
		return
	}

	// Для 2h соседний слот перепроверяется именно в этот момент
	if !c.calc.IsFree(booking.Date, booking.MentorID, booking.SlotIndex, duration) {
		c.answerCallbackAlert(ctx, callback.ID, staleSlotText)
		c.renderSlots(ctx, msg.Chat.ID, msg.ID, booking.Date, booking.MentorID)
		return
	}

	booking.Duration = duration
	c.states.SetBooking(telegramID, booking)
	c.states.SetState(telegramID, state.StateEnteringCompany)
	c.answerCallback(ctx, callback.ID, "")

	c.editOrSend(ctx, msg.Chat.ID, msg.ID,
		"🏢 Укажите название компании, в которую готовитесь (одним сообщением),\n"+
			"или пропустите этот шаг.",
		keyboard(
			[]models.InlineKeyboardButton{button("➡️ Пропустить", cbSkipCompany)},
			[]models.InlineKeyboardButton{button("❌ Отменить", cbAbort)},
		))
}

// handleSkipCompany пропуск шага компании
func (c *Controller) handleSkipCompany(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	booking, ok := c.states.Booking(telegramID)
	if !ok || booking.Duration == "" {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Сессия истекла. Начните заново: /start")
		return
	}

	booking.Company = ""
	c.states.SetBooking(telegramID, booking)
	c.states.SetState(telegramID, state.StateNone)
	c.answerCallback(ctx, callback.ID, "")

	c.renderConfirmation(ctx, msg.Chat.ID, msg.ID, booking)
}

// handleConfirmation финальное подтверждение бронирования
func (c *Controller) handleConfirmation(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	booking, ok := c.states.Booking(telegramID)
	if !ok || booking.Duration == "" {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Сессия истекла. Начните заново: /start")
		return
	}

	res, reason, err := c.bookings.Confirm(ctx, service.BookingRequest{
		User:      userInfoFrom(callback.From),
		Date:      booking.Date,
		SlotIndex: booking.SlotIndex,
		Duration:  booking.Duration,
		MentorID:  booking.MentorID,
		Company:   booking.Company,
	})
	if err != nil {
		c.logger.Error("Failed to confirm booking",
			zap.Int64("user_id", telegramID),
			zap.Error(err))
		c.answerCallback(ctx, callback.ID, "")
		c.editOrSend(ctx, msg.Chat.ID, msg.ID, "❌ Произошла ошибка. Попробуйте еще раз.", nil)
		return
	}

	switch reason {
	case service.RejectNone:
		c.states.Clear(telegramID)
		c.answerCallback(ctx, callback.ID, "✅ Запись создана")

		text := fmt.Sprintf(
			"✅ Запись подтверждена!\n\n"+
				"📅 Дата: %s\n"+
				"⏰ Время: %s\n"+
				"⏳ Длительность: %s\n"+
				"🎓 Ментор: %s\n\n"+
				"🔔 За 1 час до собеседования вы получите напоминание.\n\n"+
				"Используйте /mybookings для просмотра ваших записей.\n"+
				"Используйте /help для получения справки.",
			notify.FormatDateRussian(res.Date),
			res.Time,
			durationLabel(res.Duration),
			res.MentorName,
		)
		c.editOrSend(ctx, msg.Chat.ID, msg.ID, text, nil)

	case service.RejectSlotUnavailable:
		c.answerCallbackAlert(ctx, callback.ID, staleSlotText)
		c.renderSlots(ctx, msg.Chat.ID, msg.ID, booking.Date, booking.MentorID)

	case service.RejectSlotPast:
		c.answerCallbackAlert(ctx, callback.ID, "❌ Это время уже прошло. Выберите другую дату.")
		c.renderDates(ctx, msg.Chat.ID, msg.ID, 0, "")

	case service.RejectCapacityFull:
		c.answerCallbackAlert(ctx, callback.ID, "❌ У ментора не осталось мест на эту дату.")
		c.renderDates(ctx, msg.Chat.ID, msg.ID, 0, "")

	case service.RejectUnknownMentor:
		c.answerCallback(ctx, callback.ID, "")
		c.sendMentorPrompt(ctx, msg.Chat.ID, msg.ID, "🎓 Сначала выберите вашего ментора:")

	default:
		c.answerCallbackAlert(ctx, callback.ID, "❌ Не удалось создать запись. Попробуйте еще раз.")
	}
}

// handleAbort отказ от бронирования на любом шаге
func (c *Controller) handleAbort(ctx context.Context, callback *models.CallbackQuery) {
	c.states.Clear(callback.From.ID)
	c.answerCallback(ctx, callback.ID, "")

	if msg := messageFromCallback(callback); msg != nil {
		c.editOrSend(ctx, msg.Chat.ID, msg.ID,
			"✅ Операция отменена.\n\nИспользуйте /start для новой записи.", nil)
	}
}

// handleChooseMentor выбор постоянного ментора
func (c *Controller) handleChooseMentor(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	mentorID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, cbChooseMentor), 10, 64)
	if err != nil {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Неверный формат данных")
		return
	}

	mentor, err := c.mentorService.SetPermanentMentor(ctx, callback.From.ID, mentorID)
	if err != nil {
		c.logger.Error("Failed to set permanent mentor",
			zap.Int64("user_id", callback.From.ID),
			zap.Int64("mentor_id", mentorID),
			zap.Error(err))
		c.answerCallbackAlert(ctx, callback.ID, "❌ Не удалось выбрать ментора. Попробуйте еще раз.")
		return
	}

	c.answerCallback(ctx, callback.ID, "✅ Ментор выбран")
	c.renderDates(ctx, msg.Chat.ID, msg.ID, 0, fmt.Sprintf(
		"🎓 Ваш ментор: %s\n\n📅 Выберите удобную дату для собеседования:",
		mentor.Display(),
	))
}

// handleCancellation отмена существующей записи
func (c *Controller) handleCancellation(ctx context.Context, callback *models.CallbackQuery) {
	msg := messageFromCallback(callback)
	if msg == nil {
		c.answerCallback(ctx, callback.ID, "")
		return
	}

	key, err := model.ParseReservationKey(strings.TrimPrefix(callback.Data, cbCancelBooking))
	if err != nil {
		c.answerCallbackAlert(ctx, callback.ID, "❌ Неверный формат данных")
		return
	}

	res, reason, err := c.bookings.Cancel(ctx, key, callback.From.ID)
	if err != nil {
		c.logger.Error("Failed to cancel booking",
			zap.String("key", key.String()),
			zap.Int64("actor_id", callback.From.ID),
			zap.Error(err))
		c.answerCallbackAlert(ctx, callback.ID, "❌ Произошла ошибка. Попробуйте еще раз.")
		return
	}

	switch reason {
	case service.RejectNone:
		c.answerCallback(ctx, callback.ID, "")
		c.editOrSend(ctx, msg.Chat.ID, msg.ID, fmt.Sprintf(
			"❌ Запись отменена\n\n"+
				"📅 Дата: %s\n"+
				"⏰ Время: %s\n\n"+
				"Запись успешно отменена.\n"+
				"Используйте /start для новой записи.",
			notify.FormatDateRussian(res.Date),
			res.Time,
		), nil)

	case service.RejectNotFound:
		c.answerCallback(ctx, callback.ID, "")
		c.editOrSend(ctx, msg.Chat.ID, msg.ID, "❌ Запись не найдена.", nil)

	case service.RejectNotAllowed:
		c.answerCallbackAlert(ctx, callback.ID, "❌ У вас нет прав для отмены этой записи.")

	default:
		c.answerCallbackAlert(ctx, callback.ID, "❌ Не удалось отменить запись.")
	}
}

// handleDatesPage листание окон дат
func (c *Controller) handleDatesPage(ctx context.Context, callback *models.CallbackQuery) {
	c.answerCallback(ctx, callback.ID, "")

	msg := messageFromCallback(callback)
	if msg == nil {
		return
	}

	window, err := strconv.Atoi(strings.TrimPrefix(callback.Data, cbDatesPage))
	if err != nil || window < 0 {
		window = 0
	}
	c.renderDates(ctx, msg.Chat.ID, msg.ID, window, "")
}

// handleBackToDates возврат к выбору даты
func (c *Controller) handleBackToDates(ctx context.Context, callback *models.CallbackQuery) {
	c.answerCallback(ctx, callback.ID, "")

	if msg := messageFromCallback(callback); msg != nil {
		c.renderDates(ctx, msg.Chat.ID, msg.ID, 0, "")
	}
}

// lookupMentor возвращает ментора по ID из статической конфигурации
func (c *Controller) lookupMentor(mentorID int64) (model.Mentor, bool) {
	for _, m := range c.mentorService.Mentors() {
		if m.ID == mentorID {
			return m, true
		}
	}
	return model.Mentor{}, false
}
