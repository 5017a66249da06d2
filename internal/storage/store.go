package storage

import (
	"context"
	"encoding/json"
)

// Имена коллекций долговременного хранилища
const (
	CollectionReservations = "reservations"
	CollectionUsers        = "users"
	CollectionAssignments  = "mentor_assignments"
)

// Store внешний коллаборатор долговременного хранения. Репозитории
// загружают коллекцию целиком при старте и сохраняют целиком при каждой
// записи.
type Store interface {
	LoadAll(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	SaveAll(ctx context.Context, collection string, records map[string]json.RawMessage) error
}
