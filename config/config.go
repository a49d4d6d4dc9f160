// Package config loads server settings from the environment, with an
// optional .env file. Every setting has a workable default for local runs.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"bankapp/chat"
)

type Config struct {
	Port       string
	JWTSecret  string
	JWTExpiry  time.Duration
	SessionTTL time.Duration

	GeminiAPIKey string
	GeminiModel  string

	StaticDir string
}

// Load reads the environment. A missing .env file is fine; malformed
// numeric values fall back to their defaults with a log line.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getenv("PORT", "8000"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiry:    minutes("JWT_EXPIRE_MINUTES", 60),
		SessionTTL:   minutes("SESSION_TTL_MINUTES", 60),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", chat.DefaultGeminiModel),
		StaticDir:    getenv("STATIC_DIR", "frontend"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func minutes(key string, def int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Minute
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("%s=%q is not a positive integer, using %d", key, v, def)
		return time.Duration(def) * time.Minute
	}
	return time.Duration(n) * time.Minute
}
