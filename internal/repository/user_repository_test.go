package repository

import (
	"context"
	"testing"

	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserRepo(t *testing.T, store storage.Store) *UserRepository {
	t.Helper()
	repo := NewUserRepository(store, zap.NewNop())
	require.NoError(t, repo.Load(context.Background()))
	return repo
}

func TestUserUpsertCreates(t *testing.T) {
	repo := newUserRepo(t, storage.NewMemory())
	ctx := context.Background()

	user, err := repo.Upsert(ctx, &model.User{
		ID:           500,
		Username:     "ivan",
		FirstName:    "Иван",
		RegisteredAt: "2026-06-01 08:00:00",
		FirstSeenAt:  "2026-06-01 08:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), user.ID)
	assert.Equal(t, 0, user.BookingsCount)

	got := repo.Get(500)
	require.NotNil(t, got)
	assert.Equal(t, "ivan", got.Username)
}

func TestUserUpsertPreservesHistory(t *testing.T) {
	repo := newUserRepo(t, storage.NewMemory())
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &model.User{
		ID:           500,
		Username:     "ivan",
		RegisteredAt: "2026-06-01 08:00:00",
		FirstSeenAt:  "2026-06-01 08:00:00",
	})
	require.NoError(t, err)
	require.NoError(t, repo.IncrementBookings(ctx, 500))

	// Повторная регистрация обновляет профиль, не трогая историю
	updated, err := repo.Upsert(ctx, &model.User{
		ID:           500,
		Username:     "ivan_new",
		FirstName:    "Иван",
		RegisteredAt: "2026-06-05 10:00:00",
		FirstSeenAt:  "2026-06-05 10:00:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "ivan_new", updated.Username)
	assert.Equal(t, "2026-06-01 08:00:00", updated.RegisteredAt)
	assert.Equal(t, "2026-06-01 08:00:00", updated.FirstSeenAt)
	assert.Equal(t, 1, updated.BookingsCount)
}

func TestUserIncrementBookings(t *testing.T) {
	repo := newUserRepo(t, storage.NewMemory())
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &model.User{ID: 500, Username: "ivan"})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementBookings(ctx, 500))
	require.NoError(t, repo.IncrementBookings(ctx, 500))
	assert.Equal(t, 2, repo.Get(500).BookingsCount)

	assert.Error(t, repo.IncrementBookings(ctx, 999))
}

func TestUserPersistRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first := newUserRepo(t, store)
	_, err := first.Upsert(ctx, &model.User{ID: 500, Username: "ivan"})
	require.NoError(t, err)
	_, err = first.Upsert(ctx, &model.User{ID: 200, Username: "anna"})
	require.NoError(t, err)
	require.NoError(t, first.IncrementBookings(ctx, 500))

	second := newUserRepo(t, store)
	all := second.All()
	require.Len(t, all, 2)
	// Пользователи упорядочены по ID
	assert.Equal(t, int64(200), all[0].ID)
	assert.Equal(t, int64(500), all[1].ID)
	assert.Equal(t, 1, all[1].BookingsCount)
}
