// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // business timezone must resolve without a system zoneinfo
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Backend  BackendConfig
	Business BusinessConfig
	Debounce DebounceConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StoreConfig selects the database behind the persistent cache.
// Driver is "sqlite" (default) or "postgres".
type StoreConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	Migrations bool
	Debug      bool
}

// BackendConfig points at the order-management API.
type BackendConfig struct {
	BaseURL string
	// Timeout of zero means no client-side timeout.
	Timeout time.Duration
}

// BusinessConfig holds the rules that do not depend on the device.
type BusinessConfig struct {
	Timezone         string
	DefaultPriceList string
}

// DebounceConfig holds the quiet periods of the text channels.
type DebounceConfig struct {
	Search   time.Duration
	Comments time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev  bool
	Lang string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d StoreConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d StoreConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Location loads the business timezone.
func (b BusinessConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "salesagent.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "salesagent"),
			Password:   getEnv("DB_PASSWORD", "salesagent"),
			DBName:     getEnv("DB_NAME", "salesagent"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Migrations: getEnvBool("MIGRATIONS", false),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:3000/sap"), "/"),
			Timeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Business: BusinessConfig{
			Timezone:         getEnv("BUSINESS_TIMEZONE", "America/Tegucigalpa"),
			DefaultPriceList: getEnv("DEFAULT_PRICE_LIST", "1"),
		},
		Debounce: DebounceConfig{
			Search:   time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
			Comments: time.Duration(getEnvInt("COMMENTS_DEBOUNCE_MS", 500)) * time.Millisecond,
		},
		App: AppConfig{
			Dev:  getEnvBool("DEV", false),
			Lang: getEnv("APP_LANG", "es"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
