package state

import "github.com/mentorlink/interview_bot/internal/model"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ввод названия компании в процессе бронирования
	StateEnteringCompany UserState = "entering_company"
)

// PendingBooking накопленные данные незавершённого бронирования.
// До финального подтверждения они живут только здесь и никогда не
// попадают в хранилище записей.
type PendingBooking struct {
	MentorID  int64
	Date      string
	SlotIndex int
	Duration  model.Duration
	Company   string
}

// UserData состояние и данные диалога одного пользователя
type UserData struct {
	State   UserState
	Booking *PendingBooking
}
