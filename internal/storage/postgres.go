package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres хранит коллекции в одной таблице key/value (см. migrations).
// SaveAll заменяет коллекцию целиком в одной транзакции, сохраняя
// семантику "persist-on-every-write" файлового хранилища.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres создаёт хранилище поверх пула соединений
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// LoadAll читает все записи коллекции
func (p *Postgres) LoadAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, value FROM collections WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", collection, err)
	}
	defer rows.Close()

	records := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan collection %s row: %w", collection, err)
		}
		records[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection %s: %w", collection, err)
	}
	return records, nil
}

// SaveAll заменяет содержимое коллекции
func (p *Postgres) SaveAll(ctx context.Context, collection string, records map[string]json.RawMessage) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM collections WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("clear collection %s: %w", collection, err)
	}

	for key, value := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO collections (collection, key, value) VALUES ($1, $2, $3)`,
			collection, key, []byte(value)); err != nil {
			return fmt.Errorf("insert into collection %s: %w", collection, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
