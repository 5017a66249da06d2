package schedule

import (
	"fmt"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
)

// Slot один фиксированный интервал дневного расписания
type Slot struct {
	Index     int
	Label     string
	StartHour int
}

// Слоты собеседований одинаковы для всех дней и не меняются во время работы
var slots = []Slot{
	{Index: 0, Label: "09:00 - 10:00", StartHour: 9},
	{Index: 1, Label: "10:00 - 11:00", StartHour: 10},
	{Index: 2, Label: "11:00 - 12:00", StartHour: 11},
	{Index: 3, Label: "12:00 - 13:00", StartHour: 12},
	{Index: 4, Label: "13:00 - 14:00", StartHour: 13},
	{Index: 5, Label: "14:00 - 15:00", StartHour: 14},
	{Index: 6, Label: "15:00 - 16:00", StartHour: 15},
	{Index: 7, Label: "16:00 - 17:00", StartHour: 16},
}

// Slots возвращает упорядоченный список слотов дня
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// SlotCount возвращает количество слотов в дне
func SlotCount() int {
	return len(slots)
}

// SlotByIndex возвращает слот по индексу
func SlotByIndex(index int) (Slot, bool) {
	if index < 0 || index >= len(slots) {
		return Slot{}, false
	}
	return slots[index], true
}

// SlotByLabel возвращает слот по метке времени
func SlotByLabel(label string) (Slot, bool) {
	for _, s := range slots {
		if s.Label == label {
			return s, true
		}
	}
	return Slot{}, false
}

// StartOn возвращает момент начала слота в указанный день
func (s Slot) StartOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.StartHour, 0, 0, 0, day.Location())
}

// Русские названия дней недели, индекс 0 = понедельник
var dayNames = []string{"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье"}

// FormatDate форматирует дату как "DD.MM День_недели"
func FormatDate(day time.Time) string {
	return fmt.Sprintf("%s %s", day.Format("02.01"), dayNames[weekdayIndex(day)])
}

// weekdayIndex переводит time.Weekday (Вс=0) в индекс с понедельником = 0
func weekdayIndex(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// isWeekday возвращает true для понедельника-пятницы
func isWeekday(day time.Time) bool {
	return weekdayIndex(day) < 5
}

// hasFutureSlot возвращает true если в дне now ещё остался слот,
// начало которого в будущем
func hasFutureSlot(now time.Time) bool {
	for _, s := range slots {
		if s.StartOn(now).After(now) {
			return true
		}
	}
	return false
}

// CandidateDates возвращает окно из DatesPerWindow рабочих дней (Пн-Пт).
// Окно 0 начинается с сегодняшнего дня; сегодняшний день исключается
// целиком, если в нём не осталось слотов с началом в будущем.
// Окно w пропускает первые w*DatesPerWindow дней-кандидатов.
func CandidateDates(now time.Time, window int) []time.Time {
	if window < 0 {
		window = 0
	}

	skip := window * DatesPerWindow
	dates := make([]time.Time, 0, DatesPerWindow)

	day := now
	if isWeekday(day) && !hasFutureSlot(now) {
		day = day.AddDate(0, 0, 1)
	}

	for len(dates) < DatesPerWindow {
		if isWeekday(day) {
			if skip > 0 {
				skip--
			} else {
				dates = append(dates, day)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return dates
}

// DatesPerWindow количество рабочих дней в одном окне выбора даты
const DatesPerWindow = 5

// DateKey возвращает дату в формате коллекций (YYYY-MM-DD)
func DateKey(day time.Time) string {
	return day.Format(model.DateLayout)
}
