package app

import (
	"context"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/notify"
	"github.com/mentorlink/interview_bot/internal/reminder"
	"go.uber.org/zap"
)

// ReservationFinder поиск записи, породившей напоминание
type ReservationFinder interface {
	FindForUserSlot(userID int64, date string, slotIndex int) *model.Reservation
}

// Scheduler диспетчер сработавших напоминаний. Все события обрабатываются
// одной горутиной, поэтому доставка напоминания упорядочена относительно
// отмен и других мутаций, идущих через сервисы.
type Scheduler struct {
	reminders    *reminder.Scheduler
	reservations ReservationFinder
	notifier     *notify.Notifier
	logger       *zap.Logger
}

// NewScheduler создаёт диспетчер напоминаний
func NewScheduler(
	reminders *reminder.Scheduler,
	reservations ReservationFinder,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		reminders:    reminders,
		reservations: reservations,
		notifier:     notifier,
		logger:       logger,
	}
}

// Run обрабатывает события напоминаний до отмены контекста
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting reminder dispatcher")

	for {
		select {
		case event := <-s.reminders.Events():
			s.handleFire(ctx, event)
		case <-ctx.Done():
			s.logger.Info("Reminder dispatcher stopped")
			return nil
		}
	}
}

// handleFire обрабатывает одно срабатывание. Перед любой отправкой запись
// перепроверяется: задание могло сработать в гонке с отменой, и напоминать
// об отменённом собеседовании нельзя.
func (s *Scheduler) handleFire(ctx context.Context, event reminder.Event) {
	res := s.reservations.FindForUserSlot(event.UserID, event.Date, event.SlotIndex)
	if res == nil {
		s.logger.Warn("Reminder fired for missing reservation, skipping",
			zap.Int64("user_id", event.UserID),
			zap.String("date", event.Date),
			zap.Int("slot_index", event.SlotIndex))
		return
	}

	if err := s.notifier.Reminder(ctx, res); err != nil {
		s.logger.Error("Failed to deliver reminder",
			zap.Int64("user_id", event.UserID),
			zap.String("date", event.Date),
			zap.Error(err))
	} else {
		s.logger.Info("Reminder delivered",
			zap.Int64("user_id", event.UserID),
			zap.String("date", event.Date),
			zap.Int("slot_index", event.SlotIndex))
	}

	if err := s.notifier.ReminderLog(ctx, res); err != nil {
		s.logger.Error("Failed to send reminder log to admin channel", zap.Error(err))
	}
}
