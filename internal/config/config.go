package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	FSPath      string // Physical directory for upload scratch files

	PreviewBaseURL string // Base URL of the preview service
	PreviewAPIKey  string
	ImportBaseURL  string // Base URL of the commit/snapshot service
	ImportAPIKey   string

	EmbedThreshold  int           // Row count above which preview sessions go windowed
	SessionTTL      time.Duration // In-memory preview session lifetime
	JanitorSchedule string        // Cron spec for the session/scratch sweeper
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "amo-portal"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "amo-portal"),
		FSPath:      getEnv("FS_PATH", "./uploads"),

		PreviewBaseURL: getEnv("PREVIEW_API_BASE_URL", "http://localhost:9100"),
		PreviewAPIKey:  getEnv("PREVIEW_API_KEY", ""),
		ImportBaseURL:  getEnv("IMPORT_API_BASE_URL", "http://localhost:9200"),
		ImportAPIKey:   getEnv("IMPORT_API_KEY", ""),

		EmbedThreshold:  getEnvInt("IMPORT_EMBED_THRESHOLD", 1500),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@every 15m"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
