package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	StoreDriver string // "memory" (default) or "sqlite"
	DBSource    string
	JWTSecret   string
	JWTTTL      time.Duration
}

func LoadConfig() *Config {
	// .env is optional; missing file just means env vars and defaults.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		DBSource:    getEnv("DB_SOURCE", "file::memory:?cache=shared"),
		JWTSecret:   getEnv("JWT_SECRET", "changeme"),
		JWTTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid %s: %v", key, err)
		}
		return n
	}
	return fallback
}
