package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the backtest runner. Matching
// parameters are kept as plain strings here and parsed into an exact
// MatchingConfig by the driver, so a mistyped rate fails loudly there
// rather than being silently rounded through a float.
type Config struct {
	Logger   LoggerConfig
	Feed     FeedConfig
	Matching MatchingConfig
	Memory   MemoryConfig
	File     FileConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// FeedConfig locates the replay inputs
type FeedConfig struct {
	QuotesPath string
	OrdersPath string
}

// MatchingConfig holds the engine parameters as supplied, unparsed
type MatchingConfig struct {
	Mode             string
	QueueLevel       int
	CommissionRate   string
	MinCommission    string
	SlippageModel    string
	SlippageBase     string
	AllowPartialFill bool
}

// MemoryConfig holds in-memory trade buffer configuration
type MemoryConfig struct {
	Enabled   bool
	MaxTrades int
}

// FileConfig holds the append-only trade log configuration
type FileConfig struct {
	Enabled bool
	Path    string
}

// DatabaseConfig holds PostgreSQL trade archive configuration
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxConns        int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// RedisConfig holds Redis trade cache configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	TLSEnabled   bool
	MaxTrades    int
}

// Load loads configuration from .env file (if exists) and environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Feed: FeedConfig{
			QuotesPath: getEnv("QUOTES_PATH", "quotes.csv"),
			OrdersPath: getEnv("ORDERS_PATH", "orders.json"),
		},
		Matching: MatchingConfig{
			Mode:             getEnv("MATCHING_MODE", "level1"),
			QueueLevel:       getEnvInt("MATCHING_QUEUE_LEVEL", 0),
			CommissionRate:   getEnv("COMMISSION_RATE", "0.001"),
			MinCommission:    getEnv("MIN_COMMISSION", "0"),
			SlippageModel:    getEnv("SLIPPAGE_MODEL", "fixed"),
			SlippageBase:     getEnv("SLIPPAGE_BASE", "0"),
			AllowPartialFill: getEnvBool("ALLOW_PARTIAL_FILL", true),
		},
		Memory: MemoryConfig{
			Enabled:   getEnvBool("MEMORY_ENABLED", true),
			MaxTrades: getEnvInt("MEMORY_MAX_TRADES", 100000),
		},
		File: FileConfig{
			Enabled: getEnvBool("TRADE_LOG_ENABLED", true),
			Path:    getEnv("TRADE_LOG_PATH", "trades.log"),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DATABASE_ENABLED", false),
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnvInt("DATABASE_PORT", 5432),
			Name:            getEnv("DATABASE_NAME", "backtest"),
			User:            getEnv("DATABASE_USER", "postgres"),
			Password:        getEnv("DATABASE_PASSWORD", ""),
			MaxConns:        getEnvInt("DATABASE_MAX_CONNECTIONS", 10),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			SSLMode:         getEnv("DATABASE_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			TLSEnabled:   getEnvBool("REDIS_TLS_ENABLED", false),
			MaxTrades:    getEnvInt("REDIS_MAX_TRADES", 10000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the runner configuration. Matching parameters are
// validated separately by the engine.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	if c.Feed.QuotesPath == "" {
		return fmt.Errorf("QUOTES_PATH cannot be empty")
	}

	if c.Memory.Enabled && c.Memory.MaxTrades < 1 {
		return fmt.Errorf("MEMORY_MAX_TRADES must be > 0")
	}
	if c.File.Enabled && c.File.Path == "" {
		return fmt.Errorf("TRADE_LOG_PATH cannot be empty")
	}
	if !c.Memory.Enabled && !c.File.Enabled && !c.Database.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("at least one trade store must be enabled")
	}

	return nil
}

// Helper functions to read environment variables with defaults

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
