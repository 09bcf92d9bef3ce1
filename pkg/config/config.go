package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/snippetgen/pkg/generator"
	"github.com/platinummonkey/snippetgen/pkg/observability"
	"github.com/platinummonkey/snippetgen/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Generation cache configuration
	Cache generator.CacheConfig

	// Generation configuration
	Generator GeneratorConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// GeneratorConfig holds generation settings
type GeneratorConfig struct {
	MaxWorkers int
	CacheTTL   time.Duration
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Cache:         loadCacheConfig(),
		Generator:     loadGeneratorConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SNIPPETGEN_HOST", "0.0.0.0"),
		Port:            getEnv("SNIPPETGEN_PORT", "8080"),
		ReadTimeout:     getEnvDuration("SNIPPETGEN_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SNIPPETGEN_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("SNIPPETGEN_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SNIPPETGEN_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if storageType := getEnv("SNIPPETGEN_STORAGE_TYPE", ""); storageType != "" {
		cfg.Type = storageType
	}
	if root := getEnv("SNIPPETGEN_STORAGE_ROOT", ""); root != "" {
		cfg.Root = root
	}

	return cfg
}

// loadCacheConfig loads generation cache configuration from environment
func loadCacheConfig() generator.CacheConfig {
	cfg := *generator.DefaultCacheConfig()

	if enabled := getEnv("SNIPPETGEN_CACHE_ENABLED", ""); enabled != "" {
		cfg.EnableL1 = strings.ToLower(enabled) == "true" || enabled == "1"
	}
	if maxEntries := getEnvInt("SNIPPETGEN_CACHE_MAX_ENTRIES", 0); maxEntries > 0 {
		cfg.L1MaxEntries = maxEntries
	}
	if ttl := getEnvDuration("SNIPPETGEN_CACHE_TTL", 0); ttl > 0 {
		cfg.L1TTL = ttl
	}
	if redisAddr := getEnv("SNIPPETGEN_REDIS_ADDR", ""); redisAddr != "" {
		cfg.EnableL2 = true
		cfg.RedisAddr = redisAddr
	}
	if redisPassword := getEnv("SNIPPETGEN_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("SNIPPETGEN_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if ttl := getEnvDuration("SNIPPETGEN_REDIS_TTL", 0); ttl > 0 {
		cfg.L2TTL = ttl
	}

	return cfg
}

// loadGeneratorConfig loads generation settings from environment
func loadGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxWorkers: getEnvInt("SNIPPETGEN_MAX_WORKERS", 5),
		CacheTTL:   getEnvDuration("SNIPPETGEN_GENERATION_CACHE_TTL", time.Hour),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("SNIPPETGEN_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("SNIPPETGEN_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Storage.Type {
	case "filesystem":
		if c.Storage.Root == "" {
			return fmt.Errorf("storage root is required for filesystem storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be filesystem)", c.Storage.Type)
	}

	if c.Cache.EnableL2 && c.Cache.RedisAddr == "" {
		return fmt.Errorf("redis address is required when the L2 cache is enabled")
	}
	if c.Generator.MaxWorkers <= 0 {
		return fmt.Errorf("max workers must be positive")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
