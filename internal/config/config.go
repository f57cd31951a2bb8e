package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Remote planning API
	APIBaseURL     string
	APIToken       string
	RequestTimeout time.Duration

	// Redis configuration
	RedisAddress      string
	ReferenceCacheTTL time.Duration

	// background generation workers
	WorkerCount int

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	AppConfig = Config{
		ServerPort:        getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8000/api"),
		APIToken:          getEnv("API_TOKEN", ""),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 60*time.Second),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		ReferenceCacheTTL: getDuration("REFERENCE_CACHE_TTL", 10*time.Minute),
		WorkerCount:       getInt("WORKER_COUNT", 2),
		FrontendAddress:   getEnv("FRONTEND_ADDRESS", "https://production-frontend.com"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration %s=%q, using %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("Warning: invalid number %s=%q, using %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
