package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/notify"
	"github.com/mentorlink/interview_bot/internal/reminder"
	"github.com/mentorlink/interview_bot/internal/repository"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"go.uber.org/zap"
)

// RejectReason причина бизнес-отказа. Отказ отличается от инфраструктурной
// ошибки: его показывают пользователю и предлагают выбрать заново.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectSlotUnavailable RejectReason = "slot_unavailable"
	RejectSlotPast        RejectReason = "slot_past"
	RejectCapacityFull    RejectReason = "capacity_full"
	RejectUnknownMentor   RejectReason = "unknown_mentor"
	RejectNotFound        RejectReason = "not_found"
	RejectNotAllowed      RejectReason = "not_allowed"
)

// BookingRequest данные подтверждённого бронирования из диалога
type BookingRequest struct {
	User      model.UserInfo
	Date      string
	SlotIndex int
	Duration  model.Duration
	MentorID  int64
	Company   string
}

// BookingService выполняет фиксацию и отмену записей. Мьютекс сервиса
// сериализует последовательность "перепроверка доступности → Put",
// сохраняя инвариант "не более одной записи на ключ" при параллельных
// подтверждениях.
type BookingService struct {
	mu           sync.Mutex
	reservations *repository.ReservationRepository
	users        *repository.UserRepository
	calc         *schedule.Calculator
	mentors      model.MentorSet
	reminders    *reminder.Scheduler
	notifier     *notify.Notifier
	now          func() time.Time
	logger       *zap.Logger
}

// NewBookingService создаёт сервис бронирования
func NewBookingService(
	reservations *repository.ReservationRepository,
	users *repository.UserRepository,
	calc *schedule.Calculator,
	mentors model.MentorSet,
	reminders *reminder.Scheduler,
	notifier *notify.Notifier,
	now func() time.Time,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		reservations: reservations,
		users:        users,
		calc:         calc,
		mentors:      mentors,
		reminders:    reminders,
		notifier:     notifier,
		now:          now,
		logger:       logger,
	}
}

// Confirm выполняет финальную идемпотентную перепроверку и фиксирует запись.
// Возвращает либо запись, либо причину отказа, либо инфраструктурную ошибку.
func (s *BookingService) Confirm(ctx context.Context, req BookingRequest) (*model.Reservation, RejectReason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mentor, ok := s.mentors.ByID(req.MentorID)
	if !ok {
		return nil, RejectUnknownMentor, nil
	}

	slot, ok := schedule.SlotByIndex(req.SlotIndex)
	if !ok || !req.Duration.Valid() {
		return nil, RejectSlotUnavailable, nil
	}

	// Вместимость и доступность слота проверяются независимо
	if s.calc.MentorRemainingCapacity(req.MentorID, req.Date) <= 0 {
		return nil, RejectCapacityFull, nil
	}

	if !s.calc.IsFree(req.Date, req.MentorID, req.SlotIndex, req.Duration) {
		if s.slotStartPassed(req.Date, slot) {
			return nil, RejectSlotPast, nil
		}
		return nil, RejectSlotUnavailable, nil
	}

	res := &model.Reservation{
		ID:         uuid.New(),
		UserID:     req.User.ID,
		UserInfo:   req.User,
		Date:       req.Date,
		Time:       slot.Label,
		SlotIndex:  req.SlotIndex,
		MentorID:   mentor.ID,
		MentorName: mentor.Name,
		Duration:   req.Duration,
		Company:    req.Company,
		BookedAt:   s.now().Format(model.BookedAtLayout),
	}
	if req.Duration == model.DurationDouble {
		res.SlotIndices = []int{req.SlotIndex, req.SlotIndex + 1}
	}

	if err := s.reservations.Put(ctx, res); err != nil {
		if errors.Is(err, repository.ErrKeyExists) {
			return nil, RejectSlotUnavailable, nil
		}
		return nil, RejectNone, fmt.Errorf("store reservation: %w", err)
	}

	// Счётчик бронирований монотонный; его ошибка не откатывает запись
	if err := s.users.IncrementBookings(ctx, req.User.ID); err != nil {
		s.logger.Error("Failed to increment booking counter",
			zap.Int64("user_id", req.User.ID),
			zap.Error(err))
	}

	if !s.reminders.Schedule(res.UserID, res.Date, res.SlotIndex) {
		s.logger.Warn("Booking committed without reminder",
			zap.String("key", res.Key().String()))
	}

	if err := s.notifier.BookingLog(ctx, res); err != nil {
		s.logger.Error("Failed to send booking log to admin channel", zap.Error(err))
	}

	s.logger.Info("Reservation committed",
		zap.String("id", res.ID.String()),
		zap.String("key", res.Key().String()),
		zap.Int64("user_id", res.UserID),
		zap.String("duration", string(res.Duration)))

	return res, RejectNone, nil
}

// Cancel отменяет запись. Отменить может владелец записи или её ментор;
// при отмене ментором студент получает уведомление. Сначала снимается
// задание напоминания, затем удаляется запись.
func (s *BookingService) Cancel(ctx context.Context, key model.ReservationKey, actorID int64) (*model.Reservation, RejectReason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.reservations.Get(key)
	if res == nil {
		return nil, RejectNotFound, nil
	}

	byMentor := false
	if actorID != res.UserID {
		mentor, ok := s.mentors.ByUserID(actorID)
		if !ok || mentor.ID != res.MentorID {
			return nil, RejectNotAllowed, nil
		}
		byMentor = true
	}

	s.reminders.Cancel(res.UserID, res.Date, res.SlotIndex)

	removed, err := s.reservations.Remove(ctx, key)
	if err != nil {
		return nil, RejectNone, fmt.Errorf("remove reservation: %w", err)
	}
	if !removed {
		return nil, RejectNotFound, nil
	}

	if err := s.notifier.CancellationLog(ctx, res); err != nil {
		s.logger.Error("Failed to send cancellation log to admin channel", zap.Error(err))
	}

	if byMentor {
		if err := s.notifier.CancelledByMentor(ctx, res); err != nil {
			s.logger.Error("Failed to notify student about cancellation",
				zap.Int64("user_id", res.UserID),
				zap.Error(err))
		}
	}

	s.logger.Info("Reservation cancelled",
		zap.String("key", key.String()),
		zap.Int64("actor_id", actorID),
		zap.Bool("by_mentor", byMentor))

	return res, RejectNone, nil
}

// RestoreReminders пересоздаёт задания напоминаний для будущих записей.
// Вызывается при старте процесса, так как задания не переживают рестарт.
func (s *BookingService) RestoreReminders(ctx context.Context) int {
	restored := 0
	for _, res := range s.reservations.All() {
		if s.reminders.Schedule(res.UserID, res.Date, res.SlotIndex) {
			restored++
		}
	}

	s.logger.Info("Reminders restored", zap.Int("count", restored))
	return restored
}

// slotStartPassed проверяет наступило ли уже начало слота
func (s *BookingService) slotStartPassed(date string, slot schedule.Slot) bool {
	now := s.now()
	day, err := time.ParseInLocation(model.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	return !slot.StartOn(day).After(now)
}
