package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Форматы дат, используемые во всех коллекциях
const (
	DateLayout     = "2006-01-02"
	BookedAtLayout = "2006-01-02 15:04:05"
)

// Duration класс длительности собеседования
type Duration string

const (
	DurationSingle Duration = "1h" // Один слот
	DurationDouble Duration = "2h" // Два соседних слота
)

// Valid проверяет что значение является известным классом длительности
func (d Duration) Valid() bool {
	return d == DurationSingle || d == DurationDouble
}

// Slots возвращает количество занимаемых слотов
func (d Duration) Slots() int {
	if d == DurationDouble {
		return 2
	}
	return 1
}

// UserInfo данные Telegram-пользователя внутри записи
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
}

// Display возвращает @username или имя, если username отсутствует
func (u UserInfo) Display() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Unknown"
}

// Reservation одна запись на собеседование
type Reservation struct {
	ID          uuid.UUID `json:"id"`
	UserID      int64     `json:"user_id"`
	UserInfo    UserInfo  `json:"user_info"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // метка слота "09:00 - 10:00"
	SlotIndex   int       `json:"time_slot_index"`
	SlotIndices []int     `json:"slot_indices,omitempty"` // только для 2h: [i, i+1]
	MentorID    int64     `json:"mentor_id"`
	MentorName  string    `json:"mentor_name"`
	Duration    Duration  `json:"duration"`
	Company     string    `json:"company,omitempty"`
	BookedAt    string    `json:"booked_at"` // YYYY-MM-DD HH:MM:SS
}

// Key возвращает составной ключ записи
func (r *Reservation) Key() ReservationKey {
	return ReservationKey{
		Date:      r.Date,
		MentorID:  r.MentorID,
		SlotIndex: r.SlotIndex,
		Double:    r.Duration == DurationDouble,
	}
}

// OccupiedSlots возвращает индексы слотов, которые занимает запись.
// Для 2h второй слот выводится из первого, а не хранится отдельной записью.
func (r *Reservation) OccupiedSlots() []int {
	if r.Duration == DurationDouble {
		return []int{r.SlotIndex, r.SlotIndex + 1}
	}
	return []int{r.SlotIndex}
}

// StartsOn возвращает true если запись начинается в указанный день
func (r *Reservation) StartsOn(date string) bool {
	return r.Date == date
}

// ReservationKey составной ключ (дата, ментор, слот, маркер длительности).
// Типизированный ключ вместо строки с разделителями: строковая форма
// существует только на границе хранилища.
type ReservationKey struct {
	Date      string
	MentorID  int64
	SlotIndex int
	Double    bool
}

const keySeparator = "|"

// String каноническая строковая форма ключа для хранилища.
// Дата ISO, ментор и слот числовые, поэтому разделитель однозначен.
func (k ReservationKey) String() string {
	s := k.Date + keySeparator + strconv.FormatInt(k.MentorID, 10) + keySeparator + strconv.Itoa(k.SlotIndex)
	if k.Double {
		s += keySeparator + string(DurationDouble)
	}
	return s
}

// ParseReservationKey разбирает каноническую строковую форму ключа
func ParseReservationKey(s string) (ReservationKey, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != 3 && len(parts) != 4 {
		return ReservationKey{}, fmt.Errorf("invalid reservation key %q", s)
	}

	if _, err := time.Parse(DateLayout, parts[0]); err != nil {
		return ReservationKey{}, fmt.Errorf("invalid date in reservation key %q: %w", s, err)
	}

	mentorID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ReservationKey{}, fmt.Errorf("invalid mentor id in reservation key %q: %w", s, err)
	}

	slotIndex, err := strconv.Atoi(parts[2])
	if err != nil {
		return ReservationKey{}, fmt.Errorf("invalid slot index in reservation key %q: %w", s, err)
	}

	key := ReservationKey{
		Date:      parts[0],
		MentorID:  mentorID,
		SlotIndex: slotIndex,
	}

	if len(parts) == 4 {
		if parts[3] != string(DurationDouble) {
			return ReservationKey{}, fmt.Errorf("invalid duration marker in reservation key %q", s)
		}
		key.Double = true
	}

	return key, nil
}
