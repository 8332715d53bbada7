// Package config загружает настройки клиента из .env файла и
// переменных окружения. Флаги командной строки имеют приоритет
// и применяются поверх в main.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultServerURL = "http://localhost:3000"
	defaultDBPath    = "authkit-client.db"
)

type Config struct {
	ServerURL string     // базовый URL auth сервера
	DBPath    string     // путь к локальной базе сессии
	LogLevel  slog.Level // уровень логирования клиента
}

// Load читает .env из рабочей директории (если есть) и окружение
func Load() *Config {
	// Отсутствие .env не ошибка: окружение может быть задано извне
	_ = godotenv.Load()

	return &Config{
		ServerURL: envOr("AUTHKIT_SERVER_URL", defaultServerURL),
		DBPath:    envOr("AUTHKIT_DB_PATH", defaultDBPath),
		LogLevel:  parseLogLevel(os.Getenv("AUTHKIT_LOG_LEVEL")),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
