package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheBolt   = "bolt"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Feed      FeedConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// FeedConfig holds the upstream product feed configuration
type FeedConfig struct {
	URL                 string        `mapstructure:"url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	UserAgent           string        `mapstructure:"user_agent"`
	RatePerMinute       int           `mapstructure:"rate_per_minute"`
	RowCap              int           `mapstructure:"row_cap"`
	CandidateMultiplier int           `mapstructure:"candidate_multiplier"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "bolt"
	TTL      time.Duration `mapstructure:"ttl"`
	BoltPath string        `mapstructure:"bolt_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/farofertas/")

	// FAROFERTAS_FEED_URL -> feed.url
	v.SetEnvPrefix("FAROFERTAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "30s")

	// Feed defaults
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.timeout", "60s")
	v.SetDefault("feed.user_agent", "")
	v.SetDefault("feed.rate_per_minute", 30)
	v.SetDefault("feed.row_cap", 25000)
	v.SetDefault("feed.candidate_multiplier", 5)

	// Cache defaults
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.ttl", "2m")
	v.SetDefault("cache.bolt_path", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Feed.URL == "" {
		return fmt.Errorf("feed URL is required (set FAROFERTAS_FEED_URL)")
	}

	if config.Cache.Type != CacheMemory && config.Cache.Type != CacheBolt {
		return fmt.Errorf("cache type must be 'memory' or 'bolt', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == CacheBolt && config.Cache.BoltPath == "" {
		return fmt.Errorf("bolt path is required when cache type is 'bolt'")
	}

	if config.Feed.RowCap < 1 {
		return fmt.Errorf("feed row cap must be at least 1, got: %d", config.Feed.RowCap)
	}

	if config.Feed.CandidateMultiplier < 1 {
		return fmt.Errorf("candidate multiplier must be at least 1, got: %d", config.Feed.CandidateMultiplier)
	}

	return nil
}
