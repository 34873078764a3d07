package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Keys         APIKeys
	Ai           AIConfig
	Cache        CacheConfig
	Conversation ConversationConfig
	Pipeline     PipelineConfig
	Retrieval    RetrievalConfig
	Weather      WeatherConfig
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
	Jina       string
	OpenAI     string
	EmbedTopic string // watermill topic for place embedding requests
}

type AIConfig struct {
	EmbeddingProvider string // "jina" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "openai"
	LLMModel          string
	RewriteEnabled    bool
	BreakerThreshold  int
	BreakerCooldown   time.Duration
	RerankModel       string
}

type CacheConfig struct {
	Backend       string // "memory" or "redis"
	AnswerTTL     time.Duration
	AnswerMaxSize int
}

type ConversationConfig struct {
	TTL           time.Duration
	Capacity      int
	SweepInterval time.Duration
}

type PipelineConfig struct {
	HardTimeout time.Duration // end-to-end ceiling for one chat request
}

type RetrievalConfig struct {
	StrategyTimeout time.Duration
}

type WeatherConfig struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	CacheTTL  time.Duration
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Jina:       getEnv("JINA_API_KEY", ""),
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
			EmbedTopic: getEnv("EMBED_PLACE_CONTENT_TOPIC_NAME", "EMBED_PLACE_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "jina"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			RewriteEnabled:    getEnvAsBool("LLM_QUERY_REWRITE_ENABLED", false),
			BreakerThreshold:  getEnvAsInt("LLM_BREAKER_THRESHOLD", 5),
			BreakerCooldown:   getEnvAsDuration("LLM_BREAKER_COOLDOWN", 30*time.Second),
			RerankModel:       getEnv("RERANK_MODEL", "jina-reranker-v2-base-multilingual"),
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			AnswerTTL:     getEnvAsDuration("ANSWER_CACHE_TTL", time.Hour),
			AnswerMaxSize: getEnvAsInt("ANSWER_CACHE_MAX_SIZE", 500),
		},
		Conversation: ConversationConfig{
			TTL:           getEnvAsDuration("CONVERSATION_TTL", 30*time.Minute),
			Capacity:      getEnvAsInt("CONVERSATION_CAPACITY", 1000),
			SweepInterval: getEnvAsDuration("CONVERSATION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Pipeline: PipelineConfig{
			HardTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 30*time.Second),
		},
		Retrieval: RetrievalConfig{
			StrategyTimeout: getEnvAsDuration("RETRIEVAL_STRATEGY_TIMEOUT", time.Second),
		},
		Weather: WeatherConfig{
			BaseURL:   getEnv("WEATHER_API_BASE_URL", "https://api.open-meteo.com"),
			Latitude:  getEnvAsFloat("WEATHER_LATITUDE", 21.0285),
			Longitude: getEnvAsFloat("WEATHER_LONGITUDE", 105.8542),
			CacheTTL:  getEnvAsDuration("WEATHER_CACHE_TTL", 10*time.Minute),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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
