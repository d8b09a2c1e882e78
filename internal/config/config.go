package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service
type Config struct {
	Server        ServerConfig
	Backend       BackendConfig
	Operation     OperationConfig
	Session       SessionConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	Notifications NotificationsConfig
	CORS          CORSConfig
	Logging       LoggingConfig
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig holds configuration for the analytics backend
type BackendConfig struct {
	URL           string
	Timeout       time.Duration
	StartupWait   time.Duration
	RequireHealth bool
}

// OperationConfig bounds long-running user actions
type OperationConfig struct {
	Timeout time.Duration
}

// SessionConfig holds dashboard session configuration
type SessionConfig struct {
	Secret          string
	TokenTTL        time.Duration
	IdleTimeout     time.Duration
	JanitorInterval time.Duration
	CookieName      string
	SecureCookie    bool
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled bool
	URL     string
}

// KafkaConfig holds Kafka producer configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	ClientID string
}

// CacheConfig holds configuration for the page cache
type CacheConfig struct {
	Enabled       bool
	Duration      time.Duration
	Prefix        string
	IncludedPaths []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled            bool
	RequestsPerMinute  int
	BurstSize          int
	ClientIPHeaderName string
}

// NotificationsConfig holds notification delivery configuration
type NotificationsConfig struct {
	FeedSize int
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; defaults and environment apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variables override, e.g. BACKEND_URL for backend.url
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Session.Secret == "" {
		return nil, errors.New("session.secret must be set")
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "90s")
	v.SetDefault("server.idleTimeout", "120s")

	// Backend defaults
	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.startupWait", "30s")
	v.SetDefault("backend.requireHealth", false)

	// Operation defaults
	v.SetDefault("operation.timeout", "60s")

	// Session defaults
	v.SetDefault("session.secret", "change-me")
	v.SetDefault("session.tokenTTL", "24h")
	v.SetDefault("session.idleTimeout", "30m")
	v.SetDefault("session.janitorInterval", "1m")
	v.SetDefault("session.cookieName", "dashboard_session")
	v.SetDefault("session.secureCookie", false)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.clientID", "dashboard-service")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.duration", "5m")
	v.SetDefault("cache.prefix", "dashboard-cache")
	v.SetDefault("cache.includedPaths", []string{"/api/concepts/count", "/api/concepts/categories"})

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.burstSize", 20)
	v.SetDefault("rateLimit.clientIPHeaderName", "X-Real-IP")

	// Notification defaults
	v.SetDefault("notifications.feedSize", 50)

	// CORS defaults
	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
