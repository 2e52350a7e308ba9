package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config contains app config
type Config struct {
	GoogleConfig
	PollConfig
	ServerConfig
}

// GoogleConfig contains Google service account config
type GoogleConfig struct {
	CredentialsFile string
	CredentialsJSON string
}

// PollConfig contains poll sheet config
type PollConfig struct {
	SpreadsheetTitle string
	CreateIfMissing  bool
	AllowHeaderReset bool
	CacheTTL         time.Duration
}

// ServerConfig contains HTTP server config
type ServerConfig struct {
	HTTPAddr string
	LogLevel string
}

// NewConfig creates a new config
func NewConfig() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Println("Error loading .env file:", err)
	}

	return &Config{
		GoogleConfig: GoogleConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		},
		PollConfig: PollConfig{
			SpreadsheetTitle: getEnv("SPREADSHEET_TITLE", "AI Tools Poll Results"),
			CreateIfMissing:  getEnvBool("SHEETS_CREATE_IF_MISSING", true),
			AllowHeaderReset: getEnvBool("SHEETS_ALLOW_HEADER_RESET", false),
			CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 5)) * time.Second,
		},
		ServerConfig: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// getEnv is a helper function for receiving env variables with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool is a helper function for receiving boolean env variables
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvInt is a helper function for receiving integer env variables
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
