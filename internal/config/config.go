package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config собирает настройки сервиса из окружения.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	StorageURL    string
	StorageKey    string
	StorageBucket string

	ImageAPIURL string
	TextAPIURL  string
	ImageDir    string

	// RoomTTL — порог неактивности, после которого комната считается stale
	RoomTTL time.Duration
	// CleanupCron — расписание запуска очистки
	CleanupCron string
}

// Load читает .env.local/.env и переменные окружения.
func Load() *Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Info(".env not found, using environment variables")
		}
	}

	ttlHours := 24
	if v := os.Getenv("ROOM_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlHours = n
		}
	}

	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StorageURL:    os.Getenv("STORAGE_URL"),
		StorageKey:    os.Getenv("STORAGE_KEY"),
		StorageBucket: getenv("STORAGE_BUCKET", "panels"),
		ImageAPIURL:   getenv("IMAGE_API_URL", "https://image.pollinations.ai/prompt"),
		TextAPIURL:    getenv("TEXT_API_URL", "https://text.pollinations.ai/prompt"),
		ImageDir:      getenv("IMAGE_DIR", "generated-images"),
		RoomTTL:       time.Duration(ttlHours) * time.Hour,
		CleanupCron:   getenv("CLEANUP_CRON", "0 * * * *"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
