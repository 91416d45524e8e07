package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Logging  LoggingConfig

	// MigrateOnStart applies pending schema migrations before serving.
	MigrateOnStart bool
	// SeedDemo loads a small sample catalogue into an empty database.
	SeedDemo bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthConfig holds token and login settings
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	SweepInterval time.Duration
	// RateLimit is requests per minute per client on signup and login. Zero disables it.
	RateLimit int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load reads configuration from environment variables, after pulling in
// .env and config/local.env when they exist.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config/local.env")

	cfg := &Config{}

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if err := cfg.loadAuth(); err != nil {
		return nil, fmt.Errorf("load auth config: %w", err)
	}
	cfg.loadCORS()
	cfg.loadLogging()

	migrate, err := strconv.ParseBool(getEnvOrDefault("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}
	cfg.MigrateOnStart = migrate

	seed, err := strconv.ParseBool(getEnvOrDefault("SEED_DEMO_DATA", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA: %w", err)
	}
	cfg.SeedDemo = seed

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that need no
// other configuration.
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("config/local.env")

	cfg := &Config{}
	if err := cfg.loadDatabase(); err != nil {
		return DatabaseConfig{}, err
	}
	if cfg.Database.URL == "" {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL is required (or DB_USER and DB_NAME)")
	}
	return cfg.Database, nil
}

func (c *Config) loadDatabase() error {
	c.Database.URL = os.Getenv("DATABASE_URL")
	if c.Database.URL != "" {
		return nil
	}

	c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	c.Database.User = os.Getenv("DB_USER")
	c.Database.Password = os.Getenv("DB_PASSWORD")
	c.Database.Name = os.Getenv("DB_NAME")
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port

	if c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadAuth() error {
	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	c.Auth.TokenTTL = ttl

	sweep, err := time.ParseDuration(getEnvOrDefault("TOKEN_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_SWEEP_INTERVAL: %w", err)
	}
	c.Auth.SweepInterval = sweep

	limit, err := strconv.Atoi(getEnvOrDefault("AUTH_RATE_LIMIT", "20"))
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT: %w", err)
	}
	c.Auth.RateLimit = limit
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
		return
	}

	for _, origin := range strings.Split(originsEnv, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			c.CORS.AllowedOrigins = append(c.CORS.AllowedOrigins, trimmed)
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var problems []string

	if c.Database.URL == "" {
		problems = append(problems, "DATABASE_URL is required (or DB_USER and DB_NAME)")
	}

	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.Auth.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.Auth.SweepInterval <= 0 {
		problems = append(problems, "TOKEN_SWEEP_INTERVAL must be positive")
	}
	if c.Auth.RateLimit < 0 {
		problems = append(problems, "AUTH_RATE_LIMIT must not be negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, "LOG_FORMAT must be one of: json, text")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
