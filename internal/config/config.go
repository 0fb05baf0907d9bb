package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Kiosk     KioskConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI         string
	HuggingFace    string
	AdminToken     string
	AnalyticsTopic string // Route outcome event topic
}

type AIConfig struct {
	LLMProvider   string // "openai", "ollama", "huggingface"
	LLMModel      string // e.g. "gpt-4o", "llama3"
	OllamaBaseURL string
	LLMBaseURL    string // Optional override for hosted providers
}

type KioskConfig struct {
	OfflinePackPath       string
	MaxMessagesPerSession int
	SessionCounterStore   string // "postgres", "redis", or "memory"
	EventMode             bool
}

type RetrievalConfig struct {
	BaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:         getEnv("OPENAI_API_KEY", ""),
			HuggingFace:    getEnv("HUGGINGFACE_API_KEY", ""),
			AdminToken:     getEnv("KIOSK_ADMIN_TOKEN", ""),
			AnalyticsTopic: getEnv("ROUTE_ANALYTICS_TOPIC_NAME", "ROUTE_ANALYTICS"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMModel:      getEnv("OPENAI_MODEL", "gpt-4o"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
		},
		Kiosk: KioskConfig{
			OfflinePackPath:       getEnv("OFFLINE_PACK_PATH", "data/offline_pack/offline_pack.json"),
			MaxMessagesPerSession: getEnvAsInt("MAX_MESSAGES_PER_SESSION", 15),
			SessionCounterStore:   getEnv("SESSION_COUNTER_STORE", "postgres"),
			EventMode:             getEnvAsBool("EVENT_MODE", false),
		},
		Retrieval: RetrievalConfig{
			BaseURL: getEnv("RETRIEVAL_BASE_URL", "http://localhost:8001"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
