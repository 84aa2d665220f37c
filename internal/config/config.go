package config

import (
	"os"
	"strconv"
)

// LogConfig controls the zap logger built by internal/logger.
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds database connection settings.
// Driver selects between PostgreSQL (pgx) and an embedded SQLite file.
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	SQLitePath         string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig selects where file bytes live.
type StorageConfig struct {
	Driver   string
	BasePath string
	TempPath string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider     string
	BaseURL      string
	GenAIBaseURL string
	Model        string
	APIKey       string
	TimeoutSec   int
	RateLimit    float64
	RateBurst    int
}

// IndexConfig bounds embedding generation work.
type IndexConfig struct {
	MaxConcurrent int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	MaxUploadMB int
	Log         LogConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	MinIO       MinIOConfig
	Embedding   EmbeddingConfig
	Index       IndexConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 100),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "postgres"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			SQLitePath:         getEnv("DB_SQLITE_PATH", "filerepo.db"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", "local"),
			BasePath: getEnv("STORAGE_BASE_PATH", "./data/files"),
			TempPath: getEnv("STORAGE_TEMP_PATH", "./data/tmp"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Embedding: EmbeddingConfig{
			Provider:     getEnv("EMBEDDING_PROVIDER", "rest"),
			BaseURL:      getEnv("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			GenAIBaseURL: getEnv("EMBEDDING_GENAI_BASE_URL", ""),
			Model:        getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
			APIKey:       getEnv("GEMINI_API_KEY", ""),
			TimeoutSec:   getEnvInt("EMBEDDING_TIMEOUT_SEC", 30),
			RateLimit:    getEnvFloat("EMBEDDING_RATE_LIMIT", 5),
			RateBurst:    getEnvInt("EMBEDDING_RATE_BURST", 1),
		},
		Index: IndexConfig{
			MaxConcurrent: getEnvInt("INDEX_MAX_CONCURRENT", 4),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
