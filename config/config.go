package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// AI Provider
	GeminiAPIKey  string
	GeminiModels  []string
	GeminiBaseURL string

	// Server
	ServerPort string
}

const defaultGeminiModels = "gemini-2.5-flash,gemini-2.5-flash-lite"

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "smartfare"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "Trains"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModels:  parseModelList(getEnv("GEMINI_MODEL", defaultGeminiModels)),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		ServerPort: getEnv("PORT", "3000"),
	}

	if config.MongoURI == "" {
		log.Println("WARNING: MONGODB_URI not set - search will use live AI offer discovery")
	}
	if config.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set")
	}

	return config
}

// parseModelList parses the comma-separated model priority list.
// Entries that don't look like Gemini model names are dropped.
func parseModelList(raw string) []string {
	var models []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if strings.HasPrefix(m, "gemini-") {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return strings.Split(defaultGeminiModels, ",")
	}
	return models
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
