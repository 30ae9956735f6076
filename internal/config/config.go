package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Services ServiceConfig
	Orch     OrchestrationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

// ServiceConfig holds the base URLs of the backend collaborators.
type ServiceConfig struct {
	DocStoreURL       string
	RagQueryURL       string
	RecommendationURL string
	IngestionURL      string
}

// OrchestrationConfig tunes the session/data coordination core.
type OrchestrationConfig struct {
	ReadinessTimeout       time.Duration
	SessionResolveRetries  int
	SessionResolveDelay    time.Duration
	QueryTimeout           time.Duration
	RecommendationCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Services: ServiceConfig{
			DocStoreURL:       getEnv("DOCSTORE_URL", "http://localhost:9000"),
			RagQueryURL:       getEnv("RAG_QUERY_URL", "http://rag-api:8010"),
			RecommendationURL: getEnv("RECOMMENDATION_URL", "http://news-recommendation-api:8001"),
			IngestionURL:      getEnv("INGESTION_URL", "http://pdf-api:8013"),
		},
		Orch: OrchestrationConfig{
			ReadinessTimeout:       getEnvAsDuration("READINESS_TIMEOUT", 5*time.Second),
			SessionResolveRetries:  getEnvAsInt("SESSION_RESOLVE_RETRIES", 3),
			SessionResolveDelay:    getEnvAsDuration("SESSION_RESOLVE_DELAY", 1*time.Second),
			QueryTimeout:           getEnvAsDuration("QUERY_TIMEOUT", 60*time.Second),
			RecommendationCacheTTL: getEnvAsDuration("RECOMMENDATION_CACHE_TTL", 5*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
