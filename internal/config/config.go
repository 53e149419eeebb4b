package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Warehouse WarehouseConfig
	Models    ModelConfig
	Limits    LimitConfig
}

type AppConfig struct {
	Host               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	AuditTopic         string
}

type WarehouseConfig struct {
	ProjectID string
	Location  string
	DatasetID string
	Bucket    string
}

type ModelConfig struct {
	DefaultTextModel      string
	DefaultEmbeddingModel string
	DefaultForecastModel  string
}

// LimitConfig is carried as configuration only. No limiter, timeout
// enforcement, or concurrency gating is implemented on top of it; every
// warehouse call is a single blocking attempt.
type LimitConfig struct {
	RateLimitRequests     int
	RateLimitWindowSec    int
	MaxConcurrentRequests int
	RequestTimeoutSec     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Host:               getEnv("API_HOST", "0.0.0.0"),
			Port:               getEnv("API_PORT", "8080"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			AuditTopic:         getEnv("AUDIT_TOPIC_NAME", "AUDIT_RECORDS"),
		},
		Warehouse: WarehouseConfig{
			ProjectID: getEnv("GOOGLE_CLOUD_PROJECT", ""),
			Location:  getEnv("BIGQUERY_LOCATION", "US"),
			DatasetID: getEnv("BIGQUERY_DATASET_ID", "warehouse_ai"),
			Bucket:    getEnv("CLOUD_STORAGE_BUCKET", ""),
		},
		Models: ModelConfig{
			DefaultTextModel:      getEnv("DEFAULT_TEXT_MODEL", "gemini-pro"),
			DefaultEmbeddingModel: getEnv("DEFAULT_EMBEDDING_MODEL", "text-embedding-001"),
			DefaultForecastModel:  getEnv("DEFAULT_FORECAST_MODEL", "auto"),
		},
		Limits: LimitConfig{
			RateLimitRequests:     getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindowSec:    getEnvAsInt("RATE_LIMIT_WINDOW", 3600),
			MaxConcurrentRequests: getEnvAsInt("MAX_CONCURRENT_REQUESTS", 100),
			RequestTimeoutSec:     getEnvAsInt("REQUEST_TIMEOUT", 300),
		},
	}
}

// Validate reports whether the configuration is complete enough to talk to
// the warehouse. The health endpoint aggregates this with a live probe.
func (c *Config) Validate() error {
	if c.Warehouse.ProjectID == "" {
		return fmt.Errorf("missing required configuration: GOOGLE_CLOUD_PROJECT")
	}
	if c.Warehouse.Bucket == "" {
		return fmt.Errorf("missing required configuration: CLOUD_STORAGE_BUCKET")
	}
	return nil
}

// FullTableID returns the project.dataset.table identifier used in query text.
func (w WarehouseConfig) FullTableID(table string) string {
	return fmt.Sprintf("%s.%s.%s", w.ProjectID, w.DatasetID, table)
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
