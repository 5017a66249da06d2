package model

import (
	"fmt"
	"sort"
)

// Mentor статическая конфигурация ментора. Загружается один раз при старте
// и не изменяется во время работы процесса.
type Mentor struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	UserID        int64  `json:"user_id"`        // Telegram-аккаунт ментора (для уведомлений и обратного поиска)
	DailyCapacity int    `json:"daily_capacity"` // Максимум записей на одну дату
}

// Display возвращает @username или имя ментора
func (m Mentor) Display() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	return m.Name
}

// MentorSet неизменяемый набор менторов с индексами по ID и Telegram-аккаунту
type MentorSet struct {
	list     []Mentor
	byID     map[int64]Mentor
	byUserID map[int64]Mentor
}

// NewMentorSet собирает набор менторов, проверяя конфигурацию
func NewMentorSet(mentors []Mentor) (MentorSet, error) {
	set := MentorSet{
		byID:     make(map[int64]Mentor, len(mentors)),
		byUserID: make(map[int64]Mentor, len(mentors)),
	}

	for _, m := range mentors {
		if m.ID == 0 {
			return MentorSet{}, fmt.Errorf("mentor %q has no id", m.Name)
		}
		if m.Name == "" {
			return MentorSet{}, fmt.Errorf("mentor %d has no name", m.ID)
		}
		if m.DailyCapacity <= 0 {
			return MentorSet{}, fmt.Errorf("mentor %d has invalid daily capacity %d", m.ID, m.DailyCapacity)
		}
		if _, exists := set.byID[m.ID]; exists {
			return MentorSet{}, fmt.Errorf("duplicate mentor id %d", m.ID)
		}
		set.byID[m.ID] = m
		if m.UserID != 0 {
			set.byUserID[m.UserID] = m
		}
		set.list = append(set.list, m)
	}

	sort.Slice(set.list, func(i, j int) bool { return set.list[i].ID < set.list[j].ID })
	return set, nil
}

// ByID возвращает ментора по идентификатору
func (s MentorSet) ByID(id int64) (Mentor, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// ByUserID возвращает ментора по его Telegram-аккаунту
func (s MentorSet) ByUserID(userID int64) (Mentor, bool) {
	m, ok := s.byUserID[userID]
	return m, ok
}

// List возвращает менторов в стабильном порядке
func (s MentorSet) List() []Mentor {
	out := make([]Mentor, len(s.list))
	copy(out, s.list)
	return out
}

// Len возвращает количество менторов
func (s MentorSet) Len() int {
	return len(s.list)
}
