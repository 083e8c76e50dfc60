// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Remote inventory API
	API APIConfig

	// Redis page cache
	Redis RedisConfig

	// Asynq background sync
	Asynq AsynqConfig

	// Report export
	Export ExportConfig

	// AWS (report uploads)
	AWS AWSConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Role        string // admin, inventory
	Debug       bool
}

// APIConfig holds remote inventory API configuration
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RatePerSecond  float64
	RateBurst      int
	PageSize       int
	CacheResponses bool
}

// RedisConfig holds Redis configuration for the page cache
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	TTL          time.Duration
}

// AsynqConfig holds background worker configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	ShutdownTimeout time.Duration
	RefreshSchedule string // cron spec for periodic snapshot refresh
}

// ExportConfig holds report export configuration
type ExportConfig struct {
	OutputDir string
	UploadS3  bool
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // for MinIO in development
	UsePathStyle    bool   // for MinIO compatibility
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	// Initialize viper
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)

	setDefaults()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "solesync"),
			Environment: env,
			Version:     getEnv("APP_VERSION", "dev"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Role:        getEnv("DASHBOARD_ROLE", "inventory"),
			Debug:       getBoolEnv("APP_DEBUG", env == "development"),
		},
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "https://localhost:7183"),
			Timeout:        getDurationEnv("API_TIMEOUT", 30*time.Second),
			RatePerSecond:  getFloatEnv("API_RATE_PER_SECOND", 20),
			RateBurst:      getIntEnv("API_RATE_BURST", 10),
			PageSize:       getIntEnv("API_PAGE_SIZE", 10),
			CacheResponses: getBoolEnv("API_CACHE_RESPONSES", false),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			TTL:          getDurationEnv("REDIS_TTL", time.Minute),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getIntEnv("ASYNQ_REDIS_DB", 0),
			Concurrency:     getIntEnv("ASYNQ_CONCURRENCY", 5),
			Queues:          parseQueues(getEnv("ASYNQ_QUEUES", "default:3,low:1")),
			StrictPriority:  getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			ShutdownTimeout: getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			RefreshSchedule: getEnv("SYNC_REFRESH_SCHEDULE", "@every 15m"),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_OUTPUT_DIR", "reports"),
			UploadS3:  getBoolEnv("EXPORT_UPLOAD_S3", false),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("S3_BUCKET", "solesync-reports"),
			S3Endpoint:      getEnv("S3_ENDPOINT", ""),
			UsePathStyle:    getBoolEnv("S3_USE_PATH_STYLE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate performs sanity checks on loaded configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	switch c.App.Role {
	case "admin", "inventory":
	default:
		return fmt.Errorf("DASHBOARD_ROLE must be admin or inventory, got %q", c.App.Role)
	}
	if c.Export.UploadS3 && c.AWS.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when EXPORT_UPLOAD_S3 is set")
	}
	return nil
}

// RedisAddr returns the host:port address of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsDevelopment reports whether the app runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

func setDefaults() {
	viper.SetDefault("app.name", "solesync")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("api.page_size", 10)
}

// parseQueues parses "name:priority,name:priority" into a queue map
func parseQueues(s string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		priority, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		queues[parts[0]] = priority
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

// Environment variable helpers

func getEnv(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
