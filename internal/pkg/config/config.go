package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
// Every setting is read from the environment (optionally seeded by .env)
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	GitHub      GitHubConfig
	ProductHunt ProductHuntConfig
	Website     WebsiteConfig
	Signals     SignalsConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type DatabaseConfig struct {
	URL             string // DATABASE_URL, falls back to SUPABASE_DB_URL. Empty = no store.
	AutoMigrate     bool
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

type LoggingConfig struct {
	Level         string
	Format        string
	FileEnabled   bool
	FilePath      string
	RotationSize  int // MB
	RetentionDays int
}

type GitHubConfig struct {
	Token         string
	BaseURL       string
	RatePerMinute int
	Timeout       time.Duration
}

type ProductHuntConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

type WebsiteConfig struct {
	ProbeEnabled bool
	Timeout      time.Duration
}

type SignalsConfig struct {
	CacheTTL    time.Duration
	RefreshCron string // empty = no background refresh
	CatalogPath string // empty = embedded catalog
}

// Load loads configuration from the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	cacheTTL, err := time.ParseDuration(getEnv("SIGNAL_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("parse SIGNAL_CACHE_TTL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("API_PORT", "8090"),
			AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000")},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", os.Getenv("SUPABASE_DB_URL")),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Format:        getEnv("LOG_FORMAT", "pretty"),
			FileEnabled:   getEnvBool("LOG_FILE_ENABLED", false),
			FilePath:      getEnv("LOG_FILE_PATH", "./logs"),
			RotationSize:  getEnvInt("LOG_ROTATION_SIZE", 100),
			RetentionDays: getEnvInt("LOG_RETENTION_DAYS", 14),
		},
		GitHub: GitHubConfig{
			Token:         getEnv("GITHUB_TOKEN", ""),
			BaseURL:       getEnv("GITHUB_BASE_URL", "https://api.github.com"),
			RatePerMinute: getEnvInt("GITHUB_RATE_PER_MINUTE", 60),
			Timeout:       10 * time.Second,
		},
		ProductHunt: ProductHuntConfig{
			Token:   getEnv("PRODUCTHUNT_TOKEN", ""),
			BaseURL: getEnv("PRODUCTHUNT_BASE_URL", "https://api.producthunt.com/v2/api/graphql"),
			Timeout: 10 * time.Second,
		},
		Website: WebsiteConfig{
			ProbeEnabled: getEnvBool("WEBSITE_PROBE_ENABLED", false),
			Timeout:      5 * time.Second,
		},
		Signals: SignalsConfig{
			CacheTTL:    cacheTTL,
			RefreshCron: getEnv("SIGNAL_REFRESH_CRON", ""),
			CatalogPath: getEnv("CATALOG_PATH", ""),
		},
	}

	return config, nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
