package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the server.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerPort  string
	DataDir     string
	StoreDriver string
	DatabaseDSN string
	StaticDir   string
	UploadDir   string

	LogLevel string
	LogFile  string

	AuthEnabled       bool
	JWTSecret         string
	BoardPasswordHash string

	Gemini GeminiConfig
}

// GeminiConfig configures the optional image generation side feature.
type GeminiConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	staticDir := getEnv("STATIC_DIR", "static")
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8008"),
		DataDir:     getEnv("DATA_DIR", "data"),
		StoreDriver: getEnv("STORE_DRIVER", DriverJSON),
		DatabaseDSN: getEnv("DATABASE_DSN", "eisenhower-board.db"),
		StaticDir:   staticDir,
		UploadDir:   getEnv("UPLOAD_DIR", staticDir+"/uploads"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		AuthEnabled:       getBool("AUTH_ENABLED", false),
		JWTSecret:         getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
		BoardPasswordHash: getEnv("BOARD_PASSWORD_HASH", ""),

		Gemini: GeminiConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Endpoint: getEnv("GEMINI_API_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Model:    getEnv("GEMINI_IMAGE_MODEL", "models/gemini-1.5-flash"),
			Timeout:  getDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
