package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Redis response cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTimeout  time.Duration

	// Prayer times upstream
	PrayerAPIBaseURL string
	PrayerTimesTTL   time.Duration
	UpstreamTimeout  time.Duration

	// Donation rules
	IdentityProofThreshold decimal.Decimal
	DefaultGracePeriodDays int
	ReminderLeadDays       int

	// Schedules (cron expressions)
	OverdueSweepCron string
	ReminderCron     string
	LogRetentionCron string

	// Storage
	StorageDriver string
	StoragePath   string
	S3Bucket      string
	AWSRegion     string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		WorkerCount:            getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:         getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		CacheTimeout:           time.Duration(getEnvAsInt("CACHE_TIMEOUT_MS", 300)) * time.Millisecond,
		PrayerAPIBaseURL:       getEnv("PRAYER_API_BASE_URL", "https://api.aladhan.com/v1"),
		PrayerTimesTTL:         time.Duration(getEnvAsInt("PRAYER_TIMES_TTL_SECONDS", 21600)) * time.Second,
		UpstreamTimeout:        time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 5)) * time.Second,
		IdentityProofThreshold: getEnvAsDecimal("IDENTITY_PROOF_THRESHOLD", decimal.NewFromInt(50000)),
		DefaultGracePeriodDays: getEnvAsInt("DEFAULT_GRACE_PERIOD_DAYS", 7),
		ReminderLeadDays:       getEnvAsInt("REMINDER_LEAD_DAYS", 3),
		OverdueSweepCron:       getEnv("OVERDUE_SWEEP_CRON", "0 * * * *"),
		ReminderCron:           getEnv("REMINDER_CRON", "0 9 * * *"),
		LogRetentionCron:       getEnv("LOG_RETENTION_CRON", "30 2 * * *"),
		StorageDriver:          getEnv("STORAGE_DRIVER", "local"),
		StoragePath:            getEnv("STORAGE_PATH", "./storage"),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		AWSRegion:              getEnv("AWS_REGION", "ap-south-1"),
		ResendAPIKey:           getEnv("RESEND_API_KEY", ""),
		FromEmail:              getEnv("FROM_EMAIL", "noreply@hikmahsphere.org"),
		SentryDSN:              getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.Environment == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.DefaultGracePeriodDays < 0 {
		return fmt.Errorf("DEFAULT_GRACE_PERIOD_DAYS must not be negative")
	}
	if c.StorageDriver != "local" && c.StorageDriver != "s3" {
		return fmt.Errorf("STORAGE_DRIVER must be local or s3, got %q", c.StorageDriver)
	}
	if c.StorageDriver == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
