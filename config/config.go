package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Auth     AuthConfig
	Audit    AuditConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// StoreConfig selects the document store the catalogue is read from.
type StoreConfig struct {
	Backend                 string
	FirebaseProjectID       string
	FirebaseCredentialsPath string
	SeedPath                string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	DSN      string
	MaxConns int
}

// RedisConfig is optional. An empty URL disables run reports.
type RedisConfig struct {
	URL string
}

type CatalogConfig struct {
	FetchTimeout   time.Duration
	MaxConcurrency int
	ReadsPerSecond float64
	RunTTL         time.Duration
}

type AuthConfig struct {
	FirebaseAuthEnabled bool
}

type AuditConfig struct {
	Schedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Store: StoreConfig{
			Backend:                 strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			SeedPath:                getEnv("STORE_SEED_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "serp"),
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Catalog: CatalogConfig{
			FetchTimeout:   getEnvAsDuration("CATALOG_FETCH_TIMEOUT", 15*time.Second),
			MaxConcurrency: getEnvAsInt("CATALOG_MAX_CONCURRENCY", 8),
			ReadsPerSecond: getEnvAsFloat("CATALOG_READS_PER_SECOND", 0),
			RunTTL:         getEnvAsDuration("CATALOG_RUN_TTL", 7*24*time.Hour),
		},
		Auth: AuthConfig{
			FirebaseAuthEnabled: getEnvAsBool("FIREBASE_AUTH_ENABLED", false),
		},
		Audit: AuditConfig{
			Schedule: getEnv("AUDIT_SCHEDULE", "0 0 */6 * * *"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case BackendFirestore:
		if c.Store.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Auth.FirebaseAuthEnabled && c.Store.FirebaseProjectID == "" && c.Store.FirebaseCredentialsPath == "" {
		return fmt.Errorf("FIREBASE_AUTH_ENABLED needs FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_PATH")
	}

	if c.Catalog.FetchTimeout < 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must not be negative")
	}
	if c.Catalog.MaxConcurrency < 0 {
		return fmt.Errorf("CATALOG_MAX_CONCURRENCY must not be negative")
	}
	if c.Catalog.ReadsPerSecond < 0 {
		return fmt.Errorf("CATALOG_READS_PER_SECOND must not be negative")
	}

	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.App.LogLevel)
	}

	return nil
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
