package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDatabaseURL = "sqlite://tasks.db"

type Config struct {
	AppPort     string
	DatabaseURL string
	LogLevel    string
	LogFormat   string

	// Redis rate limiting, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	// Bearer auth for mutating routes, disabled when JWTSecret is empty
	JWTSecret     string
	AllowedOrigin string

	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment, after loading .env if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:         getString("APP_PORT", "8080"),
		DatabaseURL:     getString("DATABASE_URL", defaultDatabaseURL),
		LogLevel:        getString("LOG_LEVEL", "info"),
		LogFormat:       getString("LOG_FORMAT", "text"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		APIRateLimit:    getPositiveInt("API_RATE_LIMIT", 120),
		APIRateWindow:   time.Duration(getPositiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		ShutdownTimeout: time.Duration(getPositiveInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// invalid or non-positive values fall back to def
func getPositiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
