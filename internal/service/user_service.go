package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/repository"
	"go.uber.org/zap"
)

// UserService регистрация пользователей бота
type UserService struct {
	users  *repository.UserRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewUserService создаёт сервис пользователей
func NewUserService(users *repository.UserRepository, now func() time.Time, logger *zap.Logger) *UserService {
	return &UserService{users: users, now: now, logger: logger}
}

// RegisterUser регистрирует пользователя при первом обращении и обновляет
// профильные поля при повторных
func (s *UserService) RegisterUser(ctx context.Context, id int64, username, firstName, lastName string) (*model.User, error) {
	seen := s.now().Format(model.BookedAtLayout)

	user, err := s.users.Upsert(ctx, &model.User{
		ID:           id,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		RegisteredAt: seen,
		FirstSeenAt:  seen,
	})
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", id),
		zap.String("username", username))
	return user, nil
}

// GetByID возвращает пользователя или nil
func (s *UserService) GetByID(id int64) *model.User {
	return s.users.Get(id)
}

// All возвращает всех зарегистрированных пользователей
func (s *UserService) All() []*model.User {
	return s.users.All()
}
