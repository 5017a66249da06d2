package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/storage"
	"go.uber.org/zap"
)

// UserRepository хранилище зарегистрированных пользователей
type UserRepository struct {
	mu     sync.Mutex
	store  storage.Store
	users  map[int64]*model.User
	logger *zap.Logger
}

// NewUserRepository создаёт пустой репозиторий пользователей
func NewUserRepository(store storage.Store, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		store:  store,
		users:  make(map[int64]*model.User),
		logger: logger,
	}
}

// Load загружает коллекцию пользователей из хранилища
func (r *UserRepository) Load(ctx context.Context) error {
	raw, err := r.store.LoadAll(ctx, storage.CollectionUsers)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[int64]*model.User, len(raw))
	for key, data := range raw {
		var u model.User
		if err := json.Unmarshal(data, &u); err != nil {
			r.logger.Warn("Dropping unreadable user record",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		if u.ID == 0 {
			r.logger.Warn("Dropping user record without id", zap.String("key", key))
			continue
		}
		r.users[u.ID] = &u
	}

	r.logger.Info("Users loaded", zap.Int("count", len(r.users)))
	return nil
}

// Get возвращает пользователя по ID или nil
func (r *UserRepository) Get(id int64) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

// Upsert создаёт пользователя или обновляет его профильные поля.
// Временные метки регистрации и счётчик бронирований существующего
// пользователя не изменяются.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if ok {
		existing.Username = u.Username
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
	} else {
		stored := *u
		existing = &stored
		r.users[u.ID] = existing
	}

	if err := r.persist(ctx); err != nil {
		if !ok {
			delete(r.users, u.ID)
		}
		return nil, fmt.Errorf("persist user: %w", err)
	}
	return existing, nil
}

// IncrementBookings увеличивает счётчик бронирований за всё время.
// Счётчик монотонный: при отмене записи он не уменьшается.
func (r *UserRepository) IncrementBookings(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}

	u.BookingsCount++
	if err := r.persist(ctx); err != nil {
		u.BookingsCount--
		return fmt.Errorf("persist user counter: %w", err)
	}
	return nil
}

// All возвращает всех пользователей в порядке ID
func (r *UserRepository) All() []*model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *UserRepository) persist(ctx context.Context) error {
	raw := make(map[string]json.RawMessage, len(r.users))
	for id, u := range r.users {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode user %d: %w", id, err)
		}
		raw[strconv.FormatInt(id, 10)] = data
	}
	return r.store.SaveAll(ctx, storage.CollectionUsers, raw)
}
