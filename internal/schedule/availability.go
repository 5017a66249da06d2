package schedule

import (
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
)

// ReservationSource источник текущих записей для расчёта доступности
type ReservationSource interface {
	AllForDate(date string) []*model.Reservation
}

// SlotAvailability состояние одного слота для отображения
type SlotAvailability struct {
	Slot   Slot
	Single bool // Можно забронировать на 1 час
	Double bool // Можно забронировать на 2 часа (этот и следующий слот)
}

// Calculator вычисляет какие комбинации дата/время/ментор можно забронировать.
// Проверка вместимости ментора и доступности слота независимы: для
// предложения слота должны выполняться обе.
type Calculator struct {
	src     ReservationSource
	mentors model.MentorSet
	now     func() time.Time
}

// NewCalculator создаёт калькулятор доступности
func NewCalculator(src ReservationSource, mentors model.MentorSet, now func() time.Time) *Calculator {
	return &Calculator{src: src, mentors: mentors, now: now}
}

// IsFree проверяет можно ли в данный момент забронировать слот.
// Прошедшие слоты, занятые слоты и слоты, перекрытые соседней 2h-записью,
// недоступны. Для 2h дополнительно требуется свободный следующий слот.
func (c *Calculator) IsFree(date string, mentorID int64, slotIndex int, duration model.Duration) bool {
	slot, ok := SlotByIndex(slotIndex)
	if !ok || !duration.Valid() {
		return false
	}
	if duration == model.DurationDouble && slotIndex+1 >= SlotCount() {
		return false
	}

	if !c.slotInFuture(date, slot) {
		return false
	}

	occupied := c.occupiedSlots(date, mentorID)
	if occupied[slotIndex] {
		return false
	}

	if duration == model.DurationDouble {
		next, _ := SlotByIndex(slotIndex + 1)
		if !c.slotInFuture(date, next) || occupied[slotIndex+1] {
			return false
		}
	}

	return true
}

// AvailableSlots возвращает состояние всех слотов дня для отображения
func (c *Calculator) AvailableSlots(date string, mentorID int64) []SlotAvailability {
	out := make([]SlotAvailability, 0, SlotCount())
	for _, s := range slots {
		out = append(out, SlotAvailability{
			Slot:   s,
			Single: c.IsFree(date, mentorID, s.Index, model.DurationSingle),
			Double: c.IsFree(date, mentorID, s.Index, model.DurationDouble),
		})
	}
	return out
}

// MentorRemainingCapacity возвращает остаток мест ментора на дату.
// Каждая запись считается один раз независимо от длительности.
func (c *Calculator) MentorRemainingCapacity(mentorID int64, date string) int {
	mentor, ok := c.mentors.ByID(mentorID)
	if !ok {
		return 0
	}

	count := 0
	for _, r := range c.src.AllForDate(date) {
		if r.MentorID == mentorID {
			count++
		}
	}

	remaining := mentor.DailyCapacity - count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// slotInFuture проверяет что начало слота ещё не наступило.
// Любая дата в прошлом недоступна целиком.
func (c *Calculator) slotInFuture(date string, slot Slot) bool {
	now := c.now()
	day, err := time.ParseInLocation(model.DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	return slot.StartOn(day).After(now)
}

// occupiedSlots собирает занятые индексы слотов ментора на дату.
// 2h-запись помечает оба своих слота, что закрывает и проверку начала,
// и блокировку соседнего слота.
func (c *Calculator) occupiedSlots(date string, mentorID int64) map[int]bool {
	occupied := make(map[int]bool)
	for _, r := range c.src.AllForDate(date) {
		if r.MentorID != mentorID {
			continue
		}
		for _, idx := range r.OccupiedSlots() {
			occupied[idx] = true
		}
	}
	return occupied
}
