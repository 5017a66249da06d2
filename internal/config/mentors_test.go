package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMentorsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mentors.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMentors(t *testing.T) {
	path := writeMentorsFile(t, `[
		{"id": 1, "name": "Иван", "username": "ivan", "user_id": 100, "daily_capacity": 2},
		{"id": 2, "name": "Анна", "username": "anna", "user_id": 200, "daily_capacity": 1}
	]`)

	set, err := LoadMentors(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	mentor, ok := set.ByID(1)
	require.True(t, ok)
	assert.Equal(t, "Иван", mentor.Name)
	assert.Equal(t, 2, mentor.DailyCapacity)

	mentor, ok = set.ByUserID(200)
	require.True(t, ok)
	assert.Equal(t, int64(2), mentor.ID)
}

func TestLoadMentorsMissingFile(t *testing.T) {
	_, err := LoadMentors(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMentorsEmptyList(t *testing.T) {
	path := writeMentorsFile(t, `[]`)
	_, err := LoadMentors(path)
	assert.Error(t, err)
}

func TestLoadMentorsInvalidConfig(t *testing.T) {
	// Нулевая вместимость недопустима
	path := writeMentorsFile(t, `[{"id": 1, "name": "Иван", "daily_capacity": 0}]`)
	_, err := LoadMentors(path)
	assert.Error(t, err)

	path = writeMentorsFile(t, `{not json`)
	_, err = LoadMentors(path)
	assert.Error(t, err)
}
