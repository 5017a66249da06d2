package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mentorlink/interview_bot/internal/controller/state"
	"github.com/mentorlink/interview_bot/internal/notify"
	"github.com/mentorlink/interview_bot/internal/repository"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"github.com/mentorlink/interview_bot/internal/service"
	"go.uber.org/zap"
)

// Controller связывает Telegram-обработчики с сервисами
type Controller struct {
	bot           *bot.Bot
	userService   *service.UserService
	bookings      *service.BookingService
	mentorService *service.MentorService
	reservations  *repository.ReservationRepository
	calc          *schedule.Calculator
	states        *state.Manager
	notifier      *notify.Notifier
	adminID       int64
	now           func() time.Time
	logger        *zap.Logger
}

// New создаёт контроллер бота
func New(
	botInstance *bot.Bot,
	userService *service.UserService,
	bookings *service.BookingService,
	mentorService *service.MentorService,
	reservations *repository.ReservationRepository,
	calc *schedule.Calculator,
	notifier *notify.Notifier,
	adminID int64,
	now func() time.Time,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		bot:           botInstance,
		userService:   userService,
		bookings:      bookings,
		mentorService: mentorService,
		reservations:  reservations,
		calc:          calc,
		states:        state.NewManager(),
		notifier:      notifier,
		adminID:       adminID,
		now:           now,
		logger:        logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *Controller) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mentor", bot.MatchTypeExact, c.HandleMentor)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.HandleCancelDialog)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/database", bot.MatchTypeExact, c.HandleDatabase)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cleanup", bot.MatchTypeExact, c.HandleCleanup)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/broadcast", bot.MatchTypePrefix, c.HandleBroadcast)

	// Текстовые сообщения для диалогов с состояниями
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.HandleTextMessage)

	// Нажатия на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *Controller) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Записаться на собеседование"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "mentor", Description: "🎓 Мой ментор"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "cancel", Description: "❌ Отменить текущую операцию"},
	}

	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *Controller) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
