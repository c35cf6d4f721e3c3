package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is the signing secret used when SECRET_KEY is unset.
// Only acceptable for local development.
const DefaultSecretKey = "secret_key"

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	DatabaseURL string `yaml:"database_url"`
	CORSOrigins string `yaml:"cors_origins"`
	AutoMigrate bool   `yaml:"auto_migrate"`

	// Token signing
	SecretKey              string `yaml:"secret_key"`
	JWTAlgorithm           string `yaml:"jwt_algorithm"`
	AccessTokenExpireHours int    `yaml:"access_token_expire_hours"`

	// Password hashing
	BcryptCost int `yaml:"bcrypt_cost"`

	// Logging
	LogLevel    string `yaml:"log_level"`
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (highest precedence).
// The caller is expected to have loaded any .env file already.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:                   "8000",
		Environment:            env,
		CORSOrigins:            "*",
		AutoMigrate:            env == "dev",
		SecretKey:              DefaultSecretKey,
		JWTAlgorithm:           "HS256",
		AccessTokenExpireHours: 24,
		BcryptCost:             bcrypt.DefaultCost,
		LogLevel:               getDefaultLogLevel(env),
		LogMaxFiles:            10,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.AutoMigrate = getEnvAsBool("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.JWTAlgorithm = strings.ToUpper(getEnv("JWT_ALGORITHM", cfg.JWTAlgorithm))
	cfg.AccessTokenExpireHours = getEnvAsInt("ACCESS_TOKEN_EXPIRE_HOURS", cfg.AccessTokenExpireHours)
	cfg.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.LogMaxFiles = getEnvAsInt("LOG_MAX_FILES", cfg.LogMaxFiles)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.Environment == "prod" && c.SecretKey == DefaultSecretKey {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q (want HS256, HS384 or HS512)", c.JWTAlgorithm)
	}
	if c.AccessTokenExpireHours <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_HOURS must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

// AccessTokenTTL is the configured token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireHours) * time.Hour
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
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
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
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
		slog.Warn("invalid boolean in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}
