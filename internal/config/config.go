package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Поддерживаемые драйверы хранилища
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config настройки бота из окружения
type Config struct {
	TelegramToken string
	Environment   string
	Timezone      string

	StorageDriver  string
	DBDSN          string
	DataDir        string
	MigrationsPath string

	MentorsFile  string
	AdminID      int64
	AdminChannel string
}

// Load читает конфигурацию из .env файла и переменных окружения
func Load() (*Config, error) {
	// .env может отсутствовать, тогда читаем только окружение
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    os.Getenv("ENV"),
		Timezone:       os.Getenv("TIMEZONE"),
		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		DBDSN:          os.Getenv("DB_DSN"),
		DataDir:        os.Getenv("DATA_DIR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		MentorsFile:    os.Getenv("MENTORS_FILE"),
		AdminChannel:   os.Getenv("ADMIN_CHANNEL"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.MentorsFile == "" {
		cfg.MentorsFile = "mentors.json"
	}

	if raw := os.Getenv("ADMIN_ID"); raw != "" {
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID %q: %w", raw, err)
		}
		cfg.AdminID = adminID
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	switch cfg.StorageDriver {
	case StorageFile:
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for postgres storage")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}
