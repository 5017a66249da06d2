package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/mentorlink/interview_bot/internal/model"
	"github.com/mentorlink/interview_bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMentors(t *testing.T) model.MentorSet {
	t.Helper()
	set, err := model.NewMentorSet([]model.Mentor{
		{ID: 1, Name: "Иван", Username: "ivan", UserID: 100, DailyCapacity: 2},
		{ID: 2, Name: "Анна", Username: "anna", UserID: 200, DailyCapacity: 1},
	})
	require.NoError(t, err)
	return set
}

func newReservationRepo(t *testing.T, store storage.Store) *ReservationRepository {
	t.Helper()
	repo := NewReservationRepository(store, testMentors(t), zap.NewNop())
	require.NoError(t, repo.Load(context.Background()))
	return repo
}

func makeReservation(userID, mentorID int64, date string, slotIndex int, d model.Duration) *model.Reservation {
	return &model.Reservation{
		ID:         uuid.New(),
		UserID:     userID,
		UserInfo:   model.UserInfo{ID: userID, Username: "user"},
		Date:       date,
		SlotIndex:  slotIndex,
		MentorID:   mentorID,
		MentorName: "Иван",
		Duration:   d,
		BookedAt:   "2026-06-01 08:00:00",
	}
}

func TestReservationPutAndGet(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	res := makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)
	require.NoError(t, repo.Put(ctx, res))

	got := repo.Get(res.Key())
	require.NotNil(t, got)
	assert.Equal(t, res.ID, got.ID)
	// Метка времени восстановлена из индекса слота
	assert.Equal(t, "12:00 - 13:00", got.Time)

	assert.Nil(t, repo.Get(model.ReservationKey{Date: "2026-06-01", MentorID: 1, SlotIndex: 4}))
}

func TestReservationPutDuplicateKey(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)))

	err := repo.Put(ctx, makeReservation(501, 1, "2026-06-01", 3, model.DurationSingle))
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestReservationPutRejectsInvalid(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	assert.Error(t, repo.Put(ctx, makeReservation(500, 99, "2026-06-01", 3, model.DurationSingle)))
	assert.Error(t, repo.Put(ctx, makeReservation(500, 1, "garbage", 3, model.DurationSingle)))
	assert.Error(t, repo.Put(ctx, makeReservation(500, 1, "2026-06-01", 9, model.DurationSingle)))
	assert.Error(t, repo.Put(ctx, makeReservation(500, 1, "2026-06-01", 7, model.DurationDouble)))
	assert.Error(t, repo.Put(ctx, makeReservation(0, 1, "2026-06-01", 3, model.DurationSingle)))
}

func TestReservationDoubleFillsSlotIndices(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	res := makeReservation(500, 1, "2026-06-01", 2, model.DurationDouble)
	res.SlotIndices = nil
	require.NoError(t, repo.Put(ctx, res))

	got := repo.Get(res.Key())
	require.NotNil(t, got)
	assert.Equal(t, []int{2, 3}, got.SlotIndices)
}

func TestReservationRemove(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	res := makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)
	require.NoError(t, repo.Put(ctx, res))

	removed, err := repo.Remove(ctx, res.Key())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, repo.Get(res.Key()))

	removed, err = repo.Remove(ctx, res.Key())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReservationPersistRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first := newReservationRepo(t, store)
	res := makeReservation(500, 1, "2026-06-01", 3, model.DurationDouble)
	require.NoError(t, first.Put(ctx, res))

	second := newReservationRepo(t, store)
	got := second.Get(res.Key())
	require.NotNil(t, got)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, model.DurationDouble, got.Duration)
	assert.Equal(t, []int{3, 4}, got.SlotIndices)
}

func TestReservationLoadDropsInvalidRecords(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	valid := makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)
	validData, err := json.Marshal(valid)
	require.NoError(t, err)

	unknownMentor := makeReservation(501, 1, "2026-06-01", 4, model.DurationSingle)
	unknownMentor.MentorID = 99
	unknownData, err := json.Marshal(unknownMentor)
	require.NoError(t, err)

	require.NoError(t, store.SaveAll(ctx, storage.CollectionReservations, map[string]json.RawMessage{
		valid.Key().String():         validData,
		unknownMentor.Key().String(): unknownData,
		"broken":                     json.RawMessage(`{not json`),
	}))

	repo := newReservationRepo(t, store)
	assert.Len(t, repo.All(), 1)
	assert.NotNil(t, repo.Get(valid.Key()))

	// Очищенная коллекция сразу сохранена обратно
	raw, err := store.LoadAll(ctx, storage.CollectionReservations)
	require.NoError(t, err)
	assert.Len(t, raw, 1)
}

func TestReservationQueries(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	a := makeReservation(500, 1, "2026-06-01", 5, model.DurationSingle)
	b := makeReservation(500, 2, "2026-06-02", 0, model.DurationSingle)
	c := makeReservation(501, 1, "2026-06-01", 1, model.DurationSingle)
	for _, res := range []*model.Reservation{a, b, c} {
		require.NoError(t, repo.Put(ctx, res))
	}

	byDate := repo.AllForDate("2026-06-01")
	require.Len(t, byDate, 2)
	// Записи дня упорядочены по слоту
	assert.Equal(t, 1, byDate[0].SlotIndex)
	assert.Equal(t, 5, byDate[1].SlotIndex)

	byUser := repo.AllForUser(500)
	require.Len(t, byUser, 2)
	assert.Equal(t, "2026-06-01", byUser[0].Date)
	assert.Equal(t, "2026-06-02", byUser[1].Date)

	assert.Len(t, repo.AllForMentor(1), 2)
	assert.Len(t, repo.AllForMentor(2), 1)
	assert.Len(t, repo.All(), 3)
}

func TestReservationFindForUserSlot(t *testing.T) {
	repo := newReservationRepo(t, storage.NewMemory())
	ctx := context.Background()

	res := makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)
	require.NoError(t, repo.Put(ctx, res))

	found := repo.FindForUserSlot(500, "2026-06-01", 3)
	require.NotNil(t, found)
	assert.Equal(t, res.ID, found.ID)

	assert.Nil(t, repo.FindForUserSlot(500, "2026-06-01", 4))
	assert.Nil(t, repo.FindForUserSlot(501, "2026-06-01", 3))
	assert.Nil(t, repo.FindForUserSlot(500, "2026-06-02", 3))
}

func TestReservationValidateAndClean(t *testing.T) {
	store := storage.NewMemory()
	repo := newReservationRepo(t, store)
	ctx := context.Background()

	res := makeReservation(500, 1, "2026-06-01", 3, model.DurationSingle)
	require.NoError(t, repo.Put(ctx, res))

	removed, err := repo.ValidateAndClean(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// Запись испортилась после загрузки
	repo.Get(res.Key()).MentorID = 99
	removed, err = repo.ValidateAndClean(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, repo.All())

	raw, err := store.LoadAll(ctx, storage.CollectionReservations)
	require.NoError(t, err)
	assert.Empty(t, raw)
}
