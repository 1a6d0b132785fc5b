package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrDatabaseURLRequired is returned by Validate when no DSN is configured.
var ErrDatabaseURLRequired = errors.New("DATABASE_URL is not set")

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Ratings
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL string
	}
	Auth struct {
		SecretKey       string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFEnabled     bool
	}
	Ratings struct {
		APIKey  string
		BaseURL string
		Timeout time.Duration
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
)

// firstNonEmpty returns the value of the first key that is set, so that the
// lowercase variable names used by older deployments keep working.
func firstNonEmpty(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func NewConfig() *Config {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	// AutomaticEnv only looks up upper-case names
	_ = v.BindEnv("legacy_secret_key", "secret_key")
	_ = v.BindEnv("legacy_api_key", "api_key")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Auth defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_enabled", true)

	// Ratings API defaults
	v.SetDefault("ratings_base_url", DefaultRatingsBaseURL)
	v.SetDefault("ratings_timeout", "10s")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL: v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			SecretKey:       firstNonEmpty(v, "SECRET_KEY", "legacy_secret_key"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),
			CSRFEnabled:     v.GetBool("CSRF_ENABLED"),
		},
		Ratings: Ratings{
			APIKey:  firstNonEmpty(v, "RATINGS_API_KEY", "legacy_api_key"),
			BaseURL: v.GetString("RATINGS_BASE_URL"),
			Timeout: v.GetDuration("RATINGS_TIMEOUT"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate reports configuration that makes the server unable to start.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}
