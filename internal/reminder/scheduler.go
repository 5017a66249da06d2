package reminder

import (
	"sync"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"go.uber.org/zap"
)

// DefaultLead фиксированный интервал между напоминанием и началом слота
const DefaultLead = time.Hour

// Key ключ задания напоминания. На один ключ существует не более одного
// активного задания.
type Key struct {
	UserID    int64
	Date      string
	SlotIndex int
}

// Event событие срабатывания напоминания. События доставляются через
// единственный канал, чтобы обработка шла строго последовательно с
// остальными мутациями состояния.
type Event struct {
	Key
	SlotLabel string
}

// Scheduler планировщик напоминаний. Задания эфемерны: при рестарте
// процесса они восстанавливаются из актуальных записей.
type Scheduler struct {
	mu     sync.Mutex
	timers map[Key]*time.Timer
	events chan Event
	loc    *time.Location
	lead   time.Duration
	now    func() time.Time
	logger *zap.Logger

	stopOnce sync.Once
}

// NewScheduler создаёт планировщик. Время срабатывания всегда считается
// в часовом поясе loc независимо от локали пользователя.
func NewScheduler(loc *time.Location, lead time.Duration, now func() time.Time, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		timers: make(map[Key]*time.Timer),
		events: make(chan Event, 16),
		loc:    loc,
		lead:   lead,
		now:    now,
		logger: logger,
	}
}

// Schedule регистрирует напоминание за lead до начала слота. Повторный
// вызов с тем же ключом заменяет существующее задание. Если расчётное
// время уже прошло, задание не создаётся и возвращается false — немедленная
// отправка вместо пропущенного напоминания не выполняется.
func (s *Scheduler) Schedule(userID int64, date string, slotIndex int) bool {
	slot, ok := schedule.SlotByIndex(slotIndex)
	if !ok {
		s.logger.Error("Cannot schedule reminder for unknown slot",
			zap.Int64("user_id", userID),
			zap.String("date", date),
			zap.Int("slot_index", slotIndex))
		return false
	}

	day, err := time.ParseInLocation(model.DateLayout, date, s.loc)
	if err != nil {
		s.logger.Error("Cannot schedule reminder for unparseable date",
			zap.Int64("user_id", userID),
			zap.String("date", date),
			zap.Error(err))
		return false
	}

	fireAt := slot.StartOn(day).Add(-s.lead)
	now := s.now().In(s.loc)
	if !fireAt.After(now) {
		s.logger.Warn("Reminder fire time already passed, not scheduling",
			zap.Int64("user_id", userID),
			zap.String("date", date),
			zap.Int("slot_index", slotIndex),
			zap.Time("fire_at", fireAt))
		return false
	}

	key := Key{UserID: userID, Date: date, SlotIndex: slotIndex}
	event := Event{Key: key, SlotLabel: slot.Label}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}
	s.timers[key] = time.AfterFunc(fireAt.Sub(now), func() {
		s.fire(event)
	})

	s.logger.Info("Reminder scheduled",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.Int("slot_index", slotIndex),
		zap.Time("fire_at", fireAt))
	return true
}

// Cancel снимает задание напоминания. Отсутствие задания не является ошибкой.
func (s *Scheduler) Cancel(userID int64, date string, slotIndex int) bool {
	key := Key{UserID: userID, Date: date, SlotIndex: slotIndex}

	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[key]
	if !ok {
		return false
	}

	timer.Stop()
	delete(s.timers, key)

	s.logger.Info("Reminder cancelled",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.Int("slot_index", slotIndex))
	return true
}

// Events возвращает канал событий срабатывания для диспетчера
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Pending возвращает количество активных заданий
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop останавливает все таймеры. События, не успевшие попасть в канал,
// отбрасываются.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for key, timer := range s.timers {
			timer.Stop()
			delete(s.timers, key)
		}
	})
}

// fire выполняется из горутины таймера: снимает задание и передаёт
// событие в канал диспетчера
func (s *Scheduler) fire(event Event) {
	s.mu.Lock()
	delete(s.timers, event.Key)
	s.mu.Unlock()

	select {
	case s.events <- event:
	default:
		s.logger.Error("Reminder event dropped, dispatch queue is full",
			zap.Int64("user_id", event.UserID),
			zap.String("date", event.Date),
			zap.Int("slot_index", event.SlotIndex))
	}
}
