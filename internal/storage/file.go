package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore хранит каждую коллекцию в отдельном JSON-файле каталога.
// Запись идёт через временный файл с переименованием, чтобы падение
// процесса не оставляло обрезанный файл.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore создаёт файловое хранилище в указанном каталоге
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadAll читает коллекцию из файла; отсутствующий файл означает пустую коллекцию
func (f *FileStore) LoadAll(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}

	records := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return records, nil
}

// SaveAll записывает коллекцию целиком
func (f *FileStore) SaveAll(_ context.Context, collection string, records map[string]json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	path := f.path(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}
