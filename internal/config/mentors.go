package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mentorlink/interview_bot/internal/model"
)

// LoadMentors читает статическую конфигурацию менторов из JSON-файла.
// Набор менторов неизменяем во время работы процесса.
func LoadMentors(path string) (model.MentorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.MentorSet{}, fmt.Errorf("read mentors file: %w", err)
	}

	var mentors []model.Mentor
	if err := json.Unmarshal(data, &mentors); err != nil {
		return model.MentorSet{}, fmt.Errorf("decode mentors file: %w", err)
	}
	if len(mentors) == 0 {
		return model.MentorSet{}, fmt.Errorf("mentors file %s is empty", path)
	}

	set, err := model.NewMentorSet(mentors)
	if err != nil {
		return model.MentorSet{}, fmt.Errorf("invalid mentors config: %w", err)
	}
	return set, nil
}
