package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	chatID   any
	text     string
	markdown bool
}

type fakeSender struct {
	mu           sync.Mutex
	failMarkdown bool
	failAll      bool
	sent         []sentMessage
}

func (f *fakeSender) Send(_ context.Context, chatID any, text string, markdown bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		return errors.New("network down")
	}
	if f.failMarkdown && markdown {
		return errors.New("can't parse entities")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markdown: markdown})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

var fixedNow = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }

func testReservation() *model.Reservation {
	return &model.Reservation{
		UserID:     500,
		UserInfo:   model.UserInfo{ID: 500, Username: "ivan"},
		Date:       "2026-06-01",
		Time:       "13:00 - 14:00",
		SlotIndex:  4,
		MentorID:   1,
		MentorName: "Анна",
		Duration:   model.DurationSingle,
	}
}

func TestReminderText(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "", fixedNow, zap.NewNop())

	require.NoError(t, n.Reminder(context.Background(), testReservation()))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(500), msgs[0].chatID)
	assert.True(t, msgs[0].markdown)
	assert.Contains(t, msgs[0].text, "Напоминание о собеседовании")
	assert.Contains(t, msgs[0].text, "01.06 Понедельник")
	assert.Contains(t, msgs[0].text, "13:00 - 14:00")
}

func TestMarkdownFallback(t *testing.T) {
	sender := &fakeSender{failMarkdown: true}
	n := NewNotifier(sender, "", fixedNow, zap.NewNop())

	require.NoError(t, n.Reminder(context.Background(), testReservation()))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].markdown)
	assert.NotContains(t, msgs[0].text, "**")
}

func TestDeliveryFailure(t *testing.T) {
	sender := &fakeSender{failAll: true}
	n := NewNotifier(sender, "", fixedNow, zap.NewNop())

	assert.Error(t, n.Reminder(context.Background(), testReservation()))
}

func TestBookingLogGoesToChannel(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "-1001234567890", fixedNow, zap.NewNop())

	require.NoError(t, n.BookingLog(context.Background(), testReservation()))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "-1001234567890", msgs[0].chatID)
	assert.Contains(t, msgs[0].text, "New Interview Booking")
	// Канал администратора получает английские дни недели
	assert.Contains(t, msgs[0].text, "01.06 Monday")
	assert.Contains(t, msgs[0].text, "@ivan")
}

func TestChannelDisabledWhenEmpty(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "", fixedNow, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, n.BookingLog(ctx, testReservation()))
	require.NoError(t, n.CancellationLog(ctx, testReservation()))
	require.NoError(t, n.ReminderLog(ctx, testReservation()))

	assert.Empty(t, sender.messages())
}

func TestCancelledByMentor(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "", fixedNow, zap.NewNop())

	require.NoError(t, n.CancelledByMentor(context.Background(), testReservation()))

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(500), msgs[0].chatID)
	assert.Contains(t, msgs[0].text, "Ваша запись отменена")
	assert.Contains(t, msgs[0].text, "Анна")
}

func TestFormatDateRussian(t *testing.T) {
	assert.Equal(t, "01.06 Понедельник", FormatDateRussian("2026-06-01"))
	assert.Equal(t, "05.06 Пятница", FormatDateRussian("2026-06-05"))
	// Неразбираемая дата возвращается как есть
	assert.Equal(t, "garbage", FormatDateRussian("garbage"))
}
