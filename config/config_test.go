package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("FAROFERTAS_SERVER_PORT")
		os.Unsetenv("FAROFERTAS_SERVER_ENVIRONMENT")
		os.Unsetenv("FAROFERTAS_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("FAROFERTAS_SERVER_REQUEST_TIMEOUT")
		os.Unsetenv("FAROFERTAS_FEED_URL")
		os.Unsetenv("FAROFERTAS_FEED_TIMEOUT")
		os.Unsetenv("FAROFERTAS_FEED_USER_AGENT")
		os.Unsetenv("FAROFERTAS_FEED_RATE_PER_MINUTE")
		os.Unsetenv("FAROFERTAS_FEED_ROW_CAP")
		os.Unsetenv("FAROFERTAS_FEED_CANDIDATE_MULTIPLIER")
		os.Unsetenv("FAROFERTAS_CACHE_TYPE")
		os.Unsetenv("FAROFERTAS_CACHE_TTL")
		os.Unsetenv("FAROFERTAS_CACHE_BOLT_PATH")
		os.Unsetenv("FAROFERTAS_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required feed URL
		os.Setenv("FAROFERTAS_FEED_URL", "https://feeds.example.com/export.csv")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
			t.Errorf("Server.AllowedOrigins = %v, want [*]", cfg.Server.AllowedOrigins)
		}
		if cfg.Server.RequestTimeout != 30*time.Second {
			t.Errorf("Server.RequestTimeout = %v, want 30s", cfg.Server.RequestTimeout)
		}
		if cfg.Feed.Timeout != 60*time.Second {
			t.Errorf("Feed.Timeout = %v, want 60s", cfg.Feed.Timeout)
		}
		if cfg.Feed.RatePerMinute != 30 {
			t.Errorf("Feed.RatePerMinute = %d, want 30", cfg.Feed.RatePerMinute)
		}
		if cfg.Feed.RowCap != 25000 {
			t.Errorf("Feed.RowCap = %d, want 25000", cfg.Feed.RowCap)
		}
		if cfg.Feed.CandidateMultiplier != 5 {
			t.Errorf("Feed.CandidateMultiplier = %d, want 5", cfg.Feed.CandidateMultiplier)
		}
		if cfg.Cache.Type != CacheMemory {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 2*time.Minute {
			t.Errorf("Cache.TTL = %v, want 2m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FAROFERTAS_SERVER_PORT", "9090")
		os.Setenv("FAROFERTAS_SERVER_ENVIRONMENT", "production")
		os.Setenv("FAROFERTAS_SERVER_REQUEST_TIMEOUT", "5s")
		os.Setenv("FAROFERTAS_FEED_URL", "https://custom.example.com/feed.zip")
		os.Setenv("FAROFERTAS_FEED_TIMEOUT", "2m")
		os.Setenv("FAROFERTAS_FEED_USER_AGENT", "farofertas-test/1.0")
		os.Setenv("FAROFERTAS_FEED_ROW_CAP", "1000")
		os.Setenv("FAROFERTAS_FEED_CANDIDATE_MULTIPLIER", "3")
		os.Setenv("FAROFERTAS_CACHE_TYPE", "bolt")
		os.Setenv("FAROFERTAS_CACHE_BOLT_PATH", "/tmp/feed.db")
		os.Setenv("FAROFERTAS_CACHE_TTL", "10m")
		os.Setenv("FAROFERTAS_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Server.RequestTimeout != 5*time.Second {
			t.Errorf("Server.RequestTimeout = %v, want 5s", cfg.Server.RequestTimeout)
		}
		if cfg.Feed.URL != "https://custom.example.com/feed.zip" {
			t.Errorf("Feed.URL = %s, want https://custom.example.com/feed.zip", cfg.Feed.URL)
		}
		if cfg.Feed.Timeout != 2*time.Minute {
			t.Errorf("Feed.Timeout = %v, want 2m", cfg.Feed.Timeout)
		}
		if cfg.Feed.UserAgent != "farofertas-test/1.0" {
			t.Errorf("Feed.UserAgent = %s, want farofertas-test/1.0", cfg.Feed.UserAgent)
		}
		if cfg.Feed.RowCap != 1000 {
			t.Errorf("Feed.RowCap = %d, want 1000", cfg.Feed.RowCap)
		}
		if cfg.Feed.CandidateMultiplier != 3 {
			t.Errorf("Feed.CandidateMultiplier = %d, want 3", cfg.Feed.CandidateMultiplier)
		}
		if cfg.Cache.Type != CacheBolt {
			t.Errorf("Cache.Type = %s, want bolt", cfg.Cache.Type)
		}
		if cfg.Cache.BoltPath != "/tmp/feed.db" {
			t.Errorf("Cache.BoltPath = %s, want /tmp/feed.db", cfg.Cache.BoltPath)
		}
		if cfg.Cache.TTL != 10*time.Minute {
			t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when feed URL is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing feed URL")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FAROFERTAS_FEED_URL", "https://feeds.example.com/export.csv")
		os.Setenv("FAROFERTAS_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("picks up the feed URL from a .env file", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		err := os.WriteFile(".env", []byte("FAROFERTAS_FEED_URL=https://dotenv.example.com/feed.csv\n"), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Feed.URL != "https://dotenv.example.com/feed.csv" {
			t.Errorf("Feed.URL = %s, want https://dotenv.example.com/feed.csv", cfg.Feed.URL)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		envContent := `
# This is a comment
   # This is also a comment

TEST_VAR_1=value1

TEST_VAR_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Feed: FeedConfig{
				URL:                 "https://feeds.example.com/export.csv",
				RowCap:              25000,
				CandidateMultiplier: 5,
			},
			Cache: CacheConfig{
				Type: CacheMemory,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("validates bolt cache type with path", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Type = CacheBolt
		cfg.Cache.BoltPath = "/var/lib/farofertas/feed.db"

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid bolt config", err)
		}
	})

	failures := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty feed URL", mutate: func(c *Config) { c.Feed.URL = "" }},
		{name: "invalid cache type", mutate: func(c *Config) { c.Cache.Type = "invalid-type" }},
		{name: "bolt cache without path", mutate: func(c *Config) { c.Cache.Type = CacheBolt }},
		{name: "zero row cap", mutate: func(c *Config) { c.Feed.RowCap = 0 }},
		{name: "zero candidate multiplier", mutate: func(c *Config) { c.Feed.CandidateMultiplier = 0 }},
	}

	for _, tt := range failures {
		t.Run("fails for "+tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			if err := validate(cfg); err == nil {
				t.Errorf("validate() error = nil, want error for %s", tt.name)
			}
		})
	}
}
