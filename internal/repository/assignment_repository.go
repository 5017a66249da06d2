package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/storage"
	"go.uber.org/zap"
)

// assignmentRecord формат записи в коллекции mentor_assignments
type assignmentRecord struct {
	MentorID int64 `json:"mentor_id"`
}

// AssignmentRepository хранилище постоянных менторов пользователей
type AssignmentRepository struct {
	mu          sync.Mutex
	store       storage.Store
	mentors     model.MentorSet
	assignments map[int64]int64 // userID -> mentorID
	logger      *zap.Logger
}

// NewAssignmentRepository создаёт пустой репозиторий назначений
func NewAssignmentRepository(store storage.Store, mentors model.MentorSet, logger *zap.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		store:       store,
		mentors:     mentors,
		assignments: make(map[int64]int64),
		logger:      logger,
	}
}

// Load загружает назначения; ссылки на неизвестных менторов отбрасываются
func (r *AssignmentRepository) Load(ctx context.Context) error {
	raw, err := r.store.LoadAll(ctx, storage.CollectionAssignments)
	if err != nil {
		return fmt.Errorf("load mentor assignments: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignments = make(map[int64]int64, len(raw))
	for key, data := range raw {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			r.logger.Warn("Dropping assignment with invalid user id", zap.String("key", key))
			continue
		}

		var rec assignmentRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			r.logger.Warn("Dropping unreadable assignment record",
				zap.String("key", key),
				zap.Error(err))
			continue
		}

		if _, ok := r.mentors.ByID(rec.MentorID); !ok {
			r.logger.Warn("Dropping assignment to unknown mentor",
				zap.String("key", key),
				zap.Int64("mentor_id", rec.MentorID))
			continue
		}

		r.assignments[userID] = rec.MentorID
	}

	r.logger.Info("Mentor assignments loaded", zap.Int("count", len(r.assignments)))
	return nil
}

// Get возвращает ID постоянного ментора пользователя
func (r *AssignmentRepository) Get(userID int64) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mentorID, ok := r.assignments[userID]
	return mentorID, ok
}

// Set назначает постоянного ментора. Повторный вызов перезаписывает
// предыдущее назначение; количество смен не ограничено.
func (r *AssignmentRepository) Set(ctx context.Context, userID, mentorID int64) error {
	if _, ok := r.mentors.ByID(mentorID); !ok {
		return fmt.Errorf("unknown mentor id %d", mentorID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, had := r.assignments[userID]
	r.assignments[userID] = mentorID

	if err := r.persist(ctx); err != nil {
		if had {
			r.assignments[userID] = previous
		} else {
			delete(r.assignments, userID)
		}
		return fmt.Errorf("persist mentor assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) persist(ctx context.Context) error {
	raw := make(map[string]json.RawMessage, len(r.assignments))
	for userID, mentorID := range r.assignments {
		data, err := json.Marshal(assignmentRecord{MentorID: mentorID})
		if err != nil {
			return fmt.Errorf("encode assignment for user %d: %w", userID, err)
		}
		raw[strconv.FormatInt(userID, 10)] = data
	}
	return r.store.SaveAll(ctx, storage.CollectionAssignments, raw)
}
