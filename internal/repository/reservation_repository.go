package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/schedule"
	"github.com/mentorlink/interview_bot/internal/storage"
	"go.uber.org/zap"
)

// ErrKeyExists возвращается из Put, когда ключ уже занят другой записью
var ErrKeyExists = errors.New("reservation key already exists")

// ReservationRepository хранилище записей на собеседования. Все записи
// держатся в памяти под мьютексом и сохраняются через storage.Store при
// каждом изменении.
type ReservationRepository struct {
	mu      sync.Mutex
	store   storage.Store
	mentors model.MentorSet
	records map[model.ReservationKey]*model.Reservation
	logger  *zap.Logger
}

// NewReservationRepository создаёт пустой репозиторий записей
func NewReservationRepository(store storage.Store, mentors model.MentorSet, logger *zap.Logger) *ReservationRepository {
	return &ReservationRepository{
		store:   store,
		mentors: mentors,
		records: make(map[model.ReservationKey]*model.Reservation),
		logger:  logger,
	}
}

// Load загружает коллекцию из хранилища. Записи, не прошедшие
// структурную проверку, отбрасываются с логированием; если такие были,
// очищенная коллекция сразу сохраняется обратно.
func (r *ReservationRepository) Load(ctx context.Context) error {
	raw, err := r.store.LoadAll(ctx, storage.CollectionReservations)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[model.ReservationKey]*model.Reservation, len(raw))
	dropped := 0

	for key, data := range raw {
		var res model.Reservation
		if err := json.Unmarshal(data, &res); err != nil {
			r.logger.Warn("Dropping unreadable reservation record",
				zap.String("key", key),
				zap.Error(err))
			dropped++
			continue
		}

		if err := r.validate(&res); err != nil {
			r.logger.Warn("Dropping invalid reservation record",
				zap.String("key", key),
				zap.Error(err))
			dropped++
			continue
		}

		r.records[res.Key()] = &res
	}

	r.logger.Info("Reservations loaded",
		zap.Int("count", len(r.records)),
		zap.Int("dropped", dropped))

	if dropped > 0 {
		if err := r.persist(ctx); err != nil {
			return fmt.Errorf("persist cleaned reservations: %w", err)
		}
	}
	return nil
}

// Get возвращает запись по ключу или nil
func (r *ReservationRepository) Get(key model.ReservationKey) *model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[key]
}

// Put добавляет запись. Возвращает ErrKeyExists если ключ уже занят:
// это единственная гарантия порядка между конкурирующими подтверждениями,
// поэтому вызывающий обязан перепроверить доступность непосредственно
// перед Put.
func (r *ReservationRepository) Put(ctx context.Context, res *model.Reservation) error {
	if err := r.validate(res); err != nil {
		return fmt.Errorf("invalid reservation: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := res.Key()
	if _, exists := r.records[key]; exists {
		return ErrKeyExists
	}

	r.records[key] = res
	if err := r.persist(ctx); err != nil {
		delete(r.records, key)
		return fmt.Errorf("persist reservation: %w", err)
	}
	return nil
}

// Remove удаляет запись по ключу. Возвращает false если записи не было.
func (r *ReservationRepository) Remove(ctx context.Context, key model.ReservationKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, exists := r.records[key]
	if !exists {
		return false, nil
	}

	delete(r.records, key)
	if err := r.persist(ctx); err != nil {
		r.records[key] = res
		return false, fmt.Errorf("persist reservation removal: %w", err)
	}
	return true, nil
}

// AllForDate возвращает записи на дату, упорядоченные по слоту и ментору
func (r *ReservationRepository) AllForDate(date string) []*model.Reservation {
	return r.filter(func(res *model.Reservation) bool { return res.Date == date })
}

// AllForUser возвращает записи пользователя
func (r *ReservationRepository) AllForUser(userID int64) []*model.Reservation {
	return r.filter(func(res *model.Reservation) bool { return res.UserID == userID })
}

// AllForMentor возвращает записи ментора
func (r *ReservationRepository) AllForMentor(mentorID int64) []*model.Reservation {
	return r.filter(func(res *model.Reservation) bool { return res.MentorID == mentorID })
}

// All возвращает все записи
func (r *ReservationRepository) All() []*model.Reservation {
	return r.filter(func(*model.Reservation) bool { return true })
}

// FindForUserSlot ищет запись пользователя, начинающуюся в указанном
// слоте указанной даты. Используется обработчиком напоминаний для
// перепроверки существования записи перед отправкой.
func (r *ReservationRepository) FindForUserSlot(userID int64, date string, slotIndex int) *model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.records {
		if res.UserID == userID && res.Date == date && res.SlotIndex == slotIndex {
			return res
		}
	}
	return nil
}

// ValidateAndClean перепроверяет все записи в памяти и удаляет не прошедшие
// проверку. Возвращает количество удалённых записей.
func (r *ReservationRepository) ValidateAndClean(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for key, res := range r.records {
		if err := r.validate(res); err != nil {
			r.logger.Warn("Removing invalid reservation record",
				zap.String("key", key.String()),
				zap.Error(err))
			delete(r.records, key)
			dropped++
		}
	}

	if dropped > 0 {
		if err := r.persist(ctx); err != nil {
			return dropped, fmt.Errorf("persist cleaned reservations: %w", err)
		}
	}
	return dropped, nil
}

// validate структурная проверка записи. Для 2h-записей восстанавливает
// пару занятых слотов из начального индекса, если она отсутствует.
func (r *ReservationRepository) validate(res *model.Reservation) error {
	if res.UserID == 0 {
		return errors.New("missing user id")
	}
	if _, err := time.Parse(model.DateLayout, res.Date); err != nil {
		return fmt.Errorf("unparseable date %q: %w", res.Date, err)
	}
	if !res.Duration.Valid() {
		return fmt.Errorf("unknown duration %q", res.Duration)
	}

	slot, ok := schedule.SlotByIndex(res.SlotIndex)
	if !ok {
		return fmt.Errorf("slot index %d out of range", res.SlotIndex)
	}
	if res.Time == "" {
		res.Time = slot.Label
	}

	if res.Duration == model.DurationDouble {
		if res.SlotIndex+1 >= schedule.SlotCount() {
			return fmt.Errorf("double booking cannot start at last slot %d", res.SlotIndex)
		}
		res.SlotIndices = []int{res.SlotIndex, res.SlotIndex + 1}
	} else {
		res.SlotIndices = nil
	}

	if _, ok := r.mentors.ByID(res.MentorID); !ok {
		return fmt.Errorf("unknown mentor id %d", res.MentorID)
	}
	return nil
}

// filter собирает записи по предикату в стабильном порядке
func (r *ReservationRepository) filter(keep func(*model.Reservation) bool) []*model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Reservation
	for _, res := range r.records {
		if keep(res) {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].SlotIndex != out[j].SlotIndex {
			return out[i].SlotIndex < out[j].SlotIndex
		}
		return out[i].MentorID < out[j].MentorID
	})
	return out
}

// persist сохраняет коллекцию целиком; вызывается с удержанным мьютексом
func (r *ReservationRepository) persist(ctx context.Context) error {
	raw := make(map[string]json.RawMessage, len(r.records))
	for key, res := range r.records {
		data, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode reservation %s: %w", key.String(), err)
		}
		raw[key.String()] = data
	}
	return r.store.SaveAll(ctx, storage.CollectionReservations, raw)
}
