// Package config loads service settings from the environment, optionally
// preloaded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"clients_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	LogPretty       bool
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	DB              DBConfig
	Cache           CacheConfig
	Auth            AuthConfig
}

type DBConfig struct {
	Store          string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
	JWTTTL    time.Duration
}

// DSN is the lib/pq keyword/value connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the postgres:// form expected by golang-migrate.
func (d DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisAddr is host:port of the Redis server.
func (c CacheConfig) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Load reads the configuration. When envFile is non-empty it must exist and
// is loaded first; variables already set in the process take precedence.
// Without envFile a ./.env file is loaded if present.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		Port:            utils.Getenv("PORT", "8080"),
		GinMode:         utils.Getenv("GIN_MODE", "release"),
		LogLevel:        utils.Getenv("LOG_LEVEL", "info"),
		LogPretty:       utils.GetenvBool("LOG_PRETTY", false),
		ShutdownTimeout: utils.GetenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),
		DB: DBConfig{
			Store:          utils.Getenv("STORE_BACKEND", StorePostgres),
			Host:           utils.Getenv("DB_HOST", "localhost"),
			Port:           utils.Getenv("DB_PORT", "5432"),
			User:           utils.Getenv("DB_USER", "clients_user"),
			Password:       utils.Getenv("DB_PASSWORD", "clients_password"),
			Name:           utils.Getenv("DB_NAME", "clients_db"),
			SSLMode:        utils.Getenv("DB_SSLMODE", "disable"),
			MigrationsPath: utils.Getenv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Cache: CacheConfig{
			Backend:       utils.Getenv("CACHE_BACKEND", CacheMemory),
			TTL:           utils.GetenvDuration("CACHE_TTL", 5*time.Minute),
			RedisHost:     utils.Getenv("REDIS_HOST", "localhost"),
			RedisPort:     utils.Getenv("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       utils.GetenvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Enabled:   utils.GetenvBool("AUTH_ENABLED", false),
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTTTL:    utils.GetenvDuration("JWT_TTL", 72*time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.DB.Store)
	}
	switch c.Cache.Backend {
	case CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
