package state

import (
	"testing"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateNone, m.GetState(500))
	_, ok := m.Booking(500)
	assert.False(t, ok)
}

func TestSetStatePreservesBooking(t *testing.T) {
	m := NewManager()

	m.SetBooking(500, PendingBooking{MentorID: 1, Date: "2026-06-01", SlotIndex: 4})
	m.SetState(500, StateEnteringCompany)

	assert.Equal(t, StateEnteringCompany, m.GetState(500))
	booking, ok := m.Booking(500)
	require.True(t, ok)
	assert.Equal(t, "2026-06-01", booking.Date)
}

func TestBookingReturnsCopy(t *testing.T) {
	m := NewManager()
	m.SetBooking(500, PendingBooking{Date: "2026-06-01"})

	booking, ok := m.Booking(500)
	require.True(t, ok)
	booking.Company = "Acme"

	// Мутация копии не затрагивает сохранённые данные
	stored, _ := m.Booking(500)
	assert.Empty(t, stored.Company)
}

func TestSetBookingOverwrites(t *testing.T) {
	m := NewManager()

	m.SetBooking(500, PendingBooking{Date: "2026-06-01", SlotIndex: 2})
	m.SetBooking(500, PendingBooking{Date: "2026-06-01", SlotIndex: 2, Duration: model.DurationDouble})

	booking, ok := m.Booking(500)
	require.True(t, ok)
	assert.Equal(t, model.DurationDouble, booking.Duration)
}

func TestClear(t *testing.T) {
	m := NewManager()

	m.SetBooking(500, PendingBooking{Date: "2026-06-01"})
	m.SetState(500, StateEnteringCompany)
	m.Clear(500)

	assert.Equal(t, StateNone, m.GetState(500))
	_, ok := m.Booking(500)
	assert.False(t, ok)
}

func TestUsersIsolated(t *testing.T) {
	m := NewManager()

	m.SetState(500, StateEnteringCompany)
	assert.Equal(t, StateNone, m.GetState(501))
}
