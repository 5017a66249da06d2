package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2026-06-01 понедельник
const testDate = "2026-06-01"

func newTestScheduler(t *testing.T, now time.Time) *Scheduler {
	t.Helper()
	s := NewScheduler(time.UTC, DefaultLead, func() time.Time { return now }, zap.NewNop())
	t.Cleanup(s.Stop)
	return s
}

func TestScheduleFuture(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	assert.True(t, s.Schedule(500, testDate, 4))
	assert.Equal(t, 1, s.Pending())
}

func TestScheduleReplacesExisting(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	assert.True(t, s.Schedule(500, testDate, 4))
	assert.True(t, s.Schedule(500, testDate, 4))
	assert.Equal(t, 1, s.Pending())

	// Другой слот того же пользователя — отдельное задание
	assert.True(t, s.Schedule(500, testDate, 6))
	assert.Equal(t, 2, s.Pending())
}

func TestSchedulePastFireTime(t *testing.T) {
	// 12:30: время напоминания для слота 13:00 (12:00) уже прошло
	now := time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	assert.False(t, s.Schedule(500, testDate, 4))
	assert.Equal(t, 0, s.Pending())

	// Для слота 14:00 время напоминания (13:00) ещё впереди
	assert.True(t, s.Schedule(500, testDate, 5))
}

func TestScheduleRejectsInvalidInput(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	assert.False(t, s.Schedule(500, testDate, 99))
	assert.False(t, s.Schedule(500, "garbage", 4))
	assert.Equal(t, 0, s.Pending())
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := newTestScheduler(t, now)

	require.True(t, s.Schedule(500, testDate, 4))
	assert.True(t, s.Cancel(500, testDate, 4))
	assert.Equal(t, 0, s.Pending())

	assert.False(t, s.Cancel(500, testDate, 4))
}

func TestFireDeliversEvent(t *testing.T) {
	// now подобран так, чтобы таймер сработал почти сразу
	fireAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	now := fireAt.Add(-30 * time.Millisecond)
	s := newTestScheduler(t, now)

	require.True(t, s.Schedule(500, testDate, 4))

	select {
	case event := <-s.Events():
		assert.Equal(t, int64(500), event.UserID)
		assert.Equal(t, testDate, event.Date)
		assert.Equal(t, 4, event.SlotIndex)
		assert.Equal(t, "13:00 - 14:00", event.SlotLabel)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder event was not delivered")
	}

	assert.Equal(t, 0, s.Pending())
}

func TestStopClearsTimers(t *testing.T) {
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s := NewScheduler(time.UTC, DefaultLead, func() time.Time { return now }, zap.NewNop())

	require.True(t, s.Schedule(500, testDate, 4))
	require.True(t, s.Schedule(501, testDate, 5))

	s.Stop()
	assert.Equal(t, 0, s.Pending())
}
