package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
	FCM       FCMConfig
	Schedule  ScheduleConfig
	Rotation  RotationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI         string
	Database    string
	Timeout     time.Duration
	MaxPoolSize uint64
}

// RedisConfig holds Redis configuration (asynq broker + catalog cache)
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds audio blob storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// GeminiConfig holds transcription model configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AnthropicConfig holds report/question model configuration
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// FCMConfig holds push notification configuration
type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
	BaseURL         string
}

// ScheduleConfig holds the civil timezone and cron specs for the
// daily report run and the three question slots.
type ScheduleConfig struct {
	Timezone           string
	ReportCron         string
	MorningCron        string
	AfternoonCron      string
	EveningCron        string
	WorkerConcurrency  int
	InvocationTimeout  time.Duration
}

// RotationConfig holds question rotation parameters
type RotationConfig struct {
	MasterCount     int
	CatalogCacheTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Mongo: MongoConfig{
			URI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:    getEnv("MONGO_DB", "kiog"),
			Timeout:     getEnvAsDuration("MONGO_TIMEOUT", "10s"),
			MaxPoolSize: uint64(getEnvAsInt("MONGO_MAX_POOL_SIZE", 20)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "kiog-recordings"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Anthropic: AnthropicConfig{
			APIKey:  getEnv("CLAUDE_API_KEY", ""),
			BaseURL: getEnv("CLAUDE_API_URL", "https://api.anthropic.com"),
			Model:   getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		},
		FCM: FCMConfig{
			ProjectID:       getEnv("FCM_PROJECT_ID", ""),
			CredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
			BaseURL:         getEnv("FCM_API_URL", "https://fcm.googleapis.com"),
		},
		Schedule: ScheduleConfig{
			Timezone:          getEnv("SCHEDULE_TIMEZONE", "Asia/Tokyo"),
			ReportCron:        getEnv("REPORT_CRON", "0 23 * * *"),
			MorningCron:       getEnv("MORNING_QUESTIONS_CRON", "0 8 * * *"),
			AfternoonCron:     getEnv("AFTERNOON_QUESTIONS_CRON", "0 15 * * *"),
			EveningCron:       getEnv("EVENING_QUESTIONS_CRON", "0 22 * * *"),
			WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),
			InvocationTimeout: getEnvAsDuration("INVOCATION_TIMEOUT", "9m"),
		},
		Rotation: RotationConfig{
			MasterCount:     getEnvAsInt("ROTATION_MASTER_COUNT", 2),
			CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", "1h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("CLAUDE_API_KEY is required")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("SCHEDULE_TIMEZONE is invalid: %w", err)
	}
	if c.Rotation.MasterCount < 1 {
		return fmt.Errorf("ROTATION_MASTER_COUNT must be at least 1")
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Location resolves the configured civil timezone. Validate guarantees
// the name parses, so errors here are ignored.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
