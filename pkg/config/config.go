package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// External APIs
	Schwab SchwabConfig

	// Analysis defaults (CLI/API 요청에서 override 가능)
	Analysis AnalysisDefaults

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   LogFileConfig

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SchwabConfig holds Schwab market data API configuration
type SchwabConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	RatePerSec   float64 // 초당 요청 수 (token bucket)
	Burst        int
	CacheTTL     time.Duration // 체인 스냅샷 캐시
}

// AnalysisDefaults holds default analysis parameters and output locations
type AnalysisDefaults struct {
	MaxDelta        float64
	Weeks           int
	Timezone        string
	ExportDir       string
	ExportRetention time.Duration // 0 → cleanup job 비활성화
	WatchlistFile   string
}

// SchedulerConfig holds retry and timeout settings for scheduled jobs
type SchedulerConfig struct {
	MaxRetries int           // 실패 시 재시도 횟수 (0 → 재시도 없음)
	RetryDelay time.Duration
	JobTimeout time.Duration // 시도 1회당 제한
}

// LogFileConfig holds rotating log file configuration
type LogFileConfig struct {
	Path       string // 비어 있으면 파일 로깅 비활성화
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Schwab: SchwabConfig{
			ClientID:     getEnv("SCHWAB_CLIENT_ID", ""),
			ClientSecret: getEnv("SCHWAB_CLIENT_SECRET", ""),
			BaseURL:      getEnv("SCHWAB_BASE_URL", "https://api.schwabapi.com/marketdata/v1"),
			TokenURL:     getEnv("SCHWAB_TOKEN_URL", "https://api.schwabapi.com/v1/oauth/token"),
			RatePerSec:   getEnvAsFloat("SCHWAB_RATE_PER_SEC", 2),
			Burst:        getEnvAsInt("SCHWAB_BURST", 4),
			CacheTTL:     getEnvAsDuration("CHAIN_CACHE_TTL", "1m"),
		},

		Analysis: AnalysisDefaults{
			MaxDelta:        getEnvAsFloat("ANALYSIS_MAX_DELTA", 0.31),
			Weeks:           getEnvAsInt("ANALYSIS_WEEKS", 6),
			Timezone:        getEnv("ANALYSIS_TIMEZONE", "America/New_York"),
			ExportDir:       getEnv("EXPORT_DIR", "exports"),
			ExportRetention: getEnvAsDuration("EXPORT_RETENTION", "720h"),
			WatchlistFile:   getEnv("WATCHLIST_FILE", "config/watchlist.yaml"),
		},

		Scheduler: SchedulerConfig{
			MaxRetries: getEnvAsInt("SCHEDULER_MAX_RETRIES", 2),
			RetryDelay: getEnvAsDuration("SCHEDULER_RETRY_DELAY", "1m"),
			JobTimeout: getEnvAsDuration("SCHEDULER_JOB_TIMEOUT", "10m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile: LogFileConfig{
			Path:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 14),
		},

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.Weeks < 1 || c.Analysis.Weeks > 12 {
		return fmt.Errorf("ANALYSIS_WEEKS must be between 1 and 12, got %d", c.Analysis.Weeks)
	}

	if c.Analysis.MaxDelta <= 0 || c.Analysis.MaxDelta > 1 {
		return fmt.Errorf("ANALYSIS_MAX_DELTA must be in (0, 1], got %v", c.Analysis.MaxDelta)
	}

	if c.Scheduler.MaxRetries < 0 {
		return fmt.Errorf("SCHEDULER_MAX_RETRIES must be >= 0, got %d", c.Scheduler.MaxRetries)
	}

	if c.Scheduler.JobTimeout <= 0 {
		return fmt.Errorf("SCHEDULER_JOB_TIMEOUT must be > 0")
	}

	if c.Schwab.RatePerSec <= 0 {
		return fmt.Errorf("SCHWAB_RATE_PER_SEC must be > 0")
	}

	return nil
}

// RequireSchwab checks that Schwab credentials are present.
// fetch가 필요한 커맨드에서만 호출
func (c *Config) RequireSchwab() error {
	if c.Schwab.ClientID == "" || c.Schwab.ClientSecret == "" {
		return fmt.Errorf("SCHWAB_CLIENT_ID and SCHWAB_CLIENT_SECRET are required")
	}
	return nil
}

// Location returns the analysis timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
