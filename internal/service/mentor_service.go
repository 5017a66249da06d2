package service

import (
	"context"
	"fmt"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/repository"
	"go.uber.org/zap"
)

// MentorService работа с назначениями постоянных менторов и обратным
// поиском менторов по Telegram-аккаунту
type MentorService struct {
	assignments *repository.AssignmentRepository
	mentors     model.MentorSet
	logger      *zap.Logger
}

// NewMentorService создаёт сервис менторов
func NewMentorService(assignments *repository.AssignmentRepository, mentors model.MentorSet, logger *zap.Logger) *MentorService {
	return &MentorService{
		assignments: assignments,
		mentors:     mentors,
		logger:      logger,
	}
}

// PermanentMentor возвращает постоянного ментора пользователя.
// Отсутствие назначения означает, что перед бронированием пользователь
// обязан выбрать ментора.
func (s *MentorService) PermanentMentor(userID int64) (model.Mentor, bool) {
	mentorID, ok := s.assignments.Get(userID)
	if !ok {
		return model.Mentor{}, false
	}
	return s.mentors.ByID(mentorID)
}

// SetPermanentMentor назначает постоянного ментора (перезапись идемпотентна)
func (s *MentorService) SetPermanentMentor(ctx context.Context, userID, mentorID int64) (model.Mentor, error) {
	mentor, ok := s.mentors.ByID(mentorID)
	if !ok {
		return model.Mentor{}, fmt.Errorf("unknown mentor id %d", mentorID)
	}

	if err := s.assignments.Set(ctx, userID, mentorID); err != nil {
		return model.Mentor{}, fmt.Errorf("set permanent mentor: %w", err)
	}

	s.logger.Info("Permanent mentor assigned",
		zap.Int64("user_id", userID),
		zap.Int64("mentor_id", mentorID))
	return mentor, nil
}

// IsMentor проверяет является ли пользователь ментором
func (s *MentorService) IsMentor(userID int64) bool {
	_, ok := s.mentors.ByUserID(userID)
	return ok
}

// MentorForUser возвращает ментора по его Telegram-аккаунту
func (s *MentorService) MentorForUser(userID int64) (model.Mentor, bool) {
	return s.mentors.ByUserID(userID)
}

// Mentors возвращает всех менторов в стабильном порядке
func (s *MentorService) Mentors() []model.Mentor {
	return s.mentors.List()
}
