package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// LovBuy product-data API
	LovbuyAPIKey  string
	LovbuyBaseURL string

	// Google Sheets destination
	SheetID         string
	SheetName       string
	CredentialsPath string

	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Sourcing defaults
	DefaultMinMoq int
	Markup        string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		LovbuyAPIKey:    getEnv("LOVBUY_API_KEY", ""),
		LovbuyBaseURL:   getEnv("LOVBUY_BASE_URL", "https://www.lovbuy.com"),
		SheetID:         getEnv("GOOGLE_SHEET_ID", ""),
		SheetName:       getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
		CredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite://sourcer.db"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:         getEnv("API_PORT", "8080"),
		APIHost:         getEnv("API_HOST", "0.0.0.0"),
		DefaultMinMoq:   getEnvAsInt("SOURCER_MIN_MOQ", 120),
		Markup:          getEnv("SOURCER_MARKUP", "1.15"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
