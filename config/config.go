package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration of the EventPin backend.
type Config struct {
	Port           int
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisDB        int
	JWTSecret      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	AllowedOrigins []string
}

// Load reads configuration from environment variables. JWT_SECRET and
// MONGODB_URI have no safe default and must be set.
func Load() (Config, error) {
	cfg := Config{
		Port:           getInt("PORT", 8080),
		MongoURI:       os.Getenv("MONGODB_URI"),
		MongoDatabase:  getString("MONGODB_NAME", "eventpin"),
		RedisAddr:      getString("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getInt("REDIS_DB", 0),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTTL:      getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:     getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is not set")
	}
	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
