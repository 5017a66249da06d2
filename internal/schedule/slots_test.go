package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-06-01 понедельник
var monday = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestSlotTable(t *testing.T) {
	require.Equal(t, 8, SlotCount())

	first, ok := SlotByIndex(0)
	require.True(t, ok)
	assert.Equal(t, "09:00 - 10:00", first.Label)
	assert.Equal(t, 9, first.StartHour)

	last, ok := SlotByIndex(7)
	require.True(t, ok)
	assert.Equal(t, "16:00 - 17:00", last.Label)
	assert.Equal(t, 16, last.StartHour)

	_, ok = SlotByIndex(-1)
	assert.False(t, ok)
	_, ok = SlotByIndex(8)
	assert.False(t, ok)
}

func TestSlotByLabel(t *testing.T) {
	slot, ok := SlotByLabel("11:00 - 12:00")
	require.True(t, ok)
	assert.Equal(t, 2, slot.Index)

	_, ok = SlotByLabel("17:00 - 18:00")
	assert.False(t, ok)
}

func TestSlotStartOn(t *testing.T) {
	slot, _ := SlotByIndex(4)
	start := slot.StartOn(monday)
	assert.Equal(t, time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC), start)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01.06 Понедельник", FormatDate(monday))
	assert.Equal(t, "05.06 Пятница", FormatDate(monday.AddDate(0, 0, 4)))
	assert.Equal(t, "07.06 Воскресенье", FormatDate(monday.AddDate(0, 0, 6)))
}

func TestCandidateDatesMorning(t *testing.T) {
	dates := CandidateDates(monday, 0)
	require.Len(t, dates, DatesPerWindow)

	// Понедельник 08:00: все слоты впереди, сегодняшний день включается
	assert.Equal(t, "2026-06-01", DateKey(dates[0]))
	assert.Equal(t, "2026-06-05", DateKey(dates[4]))
}

func TestCandidateDatesAfterLastSlot(t *testing.T) {
	evening := time.Date(2026, 6, 1, 16, 30, 0, 0, time.UTC)
	dates := CandidateDates(evening, 0)
	require.Len(t, dates, DatesPerWindow)

	// После начала последнего слота сегодняшний день исключается целиком
	assert.Equal(t, "2026-06-02", DateKey(dates[0]))
	// Пятница закрывает неделю, хвост переходит на следующий понедельник
	assert.Equal(t, "2026-06-08", DateKey(dates[4]))
}

func TestCandidateDatesSkipWeekend(t *testing.T) {
	saturday := time.Date(2026, 6, 6, 10, 0, 0, 0, time.UTC)
	dates := CandidateDates(saturday, 0)
	require.Len(t, dates, DatesPerWindow)

	assert.Equal(t, "2026-06-08", DateKey(dates[0]))
	assert.Equal(t, "2026-06-12", DateKey(dates[4]))
}

func TestCandidateDatesWindows(t *testing.T) {
	window0 := CandidateDates(monday, 0)
	window1 := CandidateDates(monday, 1)
	require.Len(t, window1, DatesPerWindow)

	// Окно 1 начинается сразу после последнего дня окна 0
	assert.Equal(t, "2026-06-08", DateKey(window1[0]))
	assert.Equal(t, "2026-06-12", DateKey(window1[4]))
	assert.NotEqual(t, DateKey(window0[0]), DateKey(window1[0]))

	// Отрицательное окно трактуется как нулевое
	assert.Equal(t, DateKey(window0[0]), DateKey(CandidateDates(monday, -1)[0]))
}
