package model

// User зарегистрированный пользователь бота
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name,omitempty"`
	RegisteredAt  string `json:"registered_at"`
	FirstSeenAt   string `json:"first_seen_at"`
	BookingsCount int    `json:"bookings_count"` // Счётчик за всё время, при отмене не уменьшается
}

// Info возвращает данные пользователя в форме, встраиваемой в запись
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
