package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"arcade/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // пусто = in-memory хранилища
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HighScoreBackend string // auto | redis | postgres | memory
	AllowedOrigin    string

	// Game timing
	SnakeTick  time.Duration
	TetrisBase time.Duration

	// Rate limits
	APIRateLimit      int
	APIRateWindow     int
	SessionRateLimit  int
	SessionRateWindow int

	LogLevel string
	LogJSON  bool

	SQLitePath string
}

// Загрузка конфига из env
func Load() *Config {
	cfg := load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	return cfg
}

// LoadTerminal reads the same env for the local terminal host, which does not
// sign tokens or talk to Postgres.
func LoadTerminal() *Config {
	return load()
}

func load() *Config {
	_ = godotenv.Load()

	backend := strings.ToLower(envString("HIGHSCORE_BACKEND", "auto"))
	switch backend {
	case "auto", "redis", "postgres", "memory":
	default:
		logger.Warn("unknown HIGHSCORE_BACKEND, using auto", "value", backend)
		backend = "auto"
	}

	return &Config{
		AppPort:     envString("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		HighScoreBackend: backend,
		AllowedOrigin:    os.Getenv("ALLOWED_ORIGIN"),

		SnakeTick:  time.Duration(envInt("SNAKE_TICK_MS", 150)) * time.Millisecond,
		TetrisBase: time.Duration(envInt("TETRIS_BASE_MS", 1000)) * time.Millisecond,

		APIRateLimit:      envInt("API_RATE_LIMIT", 60), // запросов за ->
		APIRateWindow:     envInt("API_RATE_WINDOW_SECONDS", 60),
		SessionRateLimit:  envInt("SESSION_RATE_LIMIT", 30), // новых игр за ->
		SessionRateWindow: envInt("SESSION_RATE_WINDOW", 60),

		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		SQLitePath: envString("SQLITE_PATH", "data/arcade.db"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt returns def for unset, malformed or negative values.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("invalid integer env, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}
