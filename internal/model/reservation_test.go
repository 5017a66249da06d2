package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationKeyString(t *testing.T) {
	single := ReservationKey{Date: "2026-06-01", MentorID: 1, SlotIndex: 3}
	assert.Equal(t, "2026-06-01|1|3", single.String())

	double := ReservationKey{Date: "2026-06-01", MentorID: 1, SlotIndex: 3, Double: true}
	assert.Equal(t, "2026-06-01|1|3|2h", double.String())
}

func TestParseReservationKeyRoundTrip(t *testing.T) {
	keys := []ReservationKey{
		{Date: "2026-06-01", MentorID: 1, SlotIndex: 0},
		{Date: "2026-06-05", MentorID: 42, SlotIndex: 7},
		{Date: "2026-06-01", MentorID: 1, SlotIndex: 3, Double: true},
	}

	for _, key := range keys {
		parsed, err := ParseReservationKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)
	}
}

func TestParseReservationKeyRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"2026-06-01",
		"2026-06-01|1",
		"2026-06-01|1|3|1h",
		"2026-06-01|1|3|2h|extra",
		"not-a-date|1|3",
		"2026-06-01|mentor|3",
		"2026-06-01|1|slot",
	}

	for _, s := range bad {
		_, err := ParseReservationKey(s)
		assert.Error(t, err, "key %q", s)
	}
}

func TestKeyDistinguishesDurations(t *testing.T) {
	base := Reservation{Date: "2026-06-01", MentorID: 1, SlotIndex: 3, Duration: DurationSingle}
	double := base
	double.Duration = DurationDouble

	assert.NotEqual(t, base.Key(), double.Key())
}

func TestOccupiedSlots(t *testing.T) {
	single := Reservation{SlotIndex: 2, Duration: DurationSingle}
	assert.Equal(t, []int{2}, single.OccupiedSlots())

	double := Reservation{SlotIndex: 2, Duration: DurationDouble}
	assert.Equal(t, []int{2, 3}, double.OccupiedSlots())
}

func TestDuration(t *testing.T) {
	assert.True(t, DurationSingle.Valid())
	assert.True(t, DurationDouble.Valid())
	assert.False(t, Duration("3h").Valid())
	assert.False(t, Duration("").Valid())

	assert.Equal(t, 1, DurationSingle.Slots())
	assert.Equal(t, 2, DurationDouble.Slots())
}

func TestUserInfoDisplay(t *testing.T) {
	assert.Equal(t, "@ivan", UserInfo{Username: "ivan", FirstName: "Иван"}.Display())
	assert.Equal(t, "Иван", UserInfo{FirstName: "Иван"}.Display())
	assert.Equal(t, "Unknown", UserInfo{}.Display())
}
