package controller

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotCallback(t *testing.T) {
	date, slotIndex, err := parseSlotCallback("slot:2026-06-01:4", cbSlot)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", date)
	assert.Equal(t, 4, slotIndex)

	for _, bad := range []string{"slot:", "slot:2026-06-01", "slot:2026-06-01:x", "slot:2026-06-01:4:extra"} {
		_, _, err := parseSlotCallback(bad, cbSlot)
		assert.Error(t, err, "data %q", bad)
	}
}

func TestUserInfoFrom(t *testing.T) {
	info := userInfoFrom(models.User{
		ID:        500,
		Username:  "ivan",
		FirstName: "Иван",
		LastName:  "Петров",
	})

	assert.Equal(t, model.UserInfo{
		ID:        500,
		Username:  "ivan",
		FirstName: "Иван",
		LastName:  "Петров",
	}, info)
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "1 час", durationLabel(model.DurationSingle))
	assert.Equal(t, "2 часа", durationLabel(model.DurationDouble))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "13:00 - 14:00", slotLabel(4))
	assert.Equal(t, "слот 99", slotLabel(99))
}
