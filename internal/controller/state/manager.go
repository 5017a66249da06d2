package state

import "sync"

// Manager управляет состояниями диалогов пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{states: make(map[int64]*UserData)}
}

// GetState получает текущее состояние пользователя
func (m *Manager) GetState(telegramID int64) UserState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, exists := m.states[telegramID]; exists {
		return data.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя, сохраняя данные диалога
func (m *Manager) SetState(telegramID int64, state UserState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, exists := m.states[telegramID]
	if !exists {
		data = &UserData{}
		m.states[telegramID] = data
	}
	data.State = state
}

// Booking возвращает копию незавершённого бронирования пользователя
func (m *Manager) Booking(telegramID int64) (PendingBooking, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.states[telegramID]
	if !exists || data.Booking == nil {
		return PendingBooking{}, false
	}
	return *data.Booking, true
}

// SetBooking сохраняет текущие данные бронирования пользователя
func (m *Manager) SetBooking(telegramID int64, booking PendingBooking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, exists := m.states[telegramID]
	if !exists {
		data = &UserData{}
		m.states[telegramID] = data
	}
	data.Booking = &booking
}

// Clear удаляет состояние и данные диалога пользователя
func (m *Manager) Clear(telegramID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, telegramID)
}
