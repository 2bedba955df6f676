// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// SecretMode tells the auth gate how the configured admin password must be
// verified. It is resolved exactly once at load time; request handling never
// re-inspects the secret format.
type SecretMode int

const (
	// SecretPlain compares the configured secret byte-for-byte (constant time).
	// Insecure fallback for local development only.
	SecretPlain SecretMode = iota
	// SecretBcrypt treats the configured secret as a bcrypt hash.
	SecretBcrypt
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	SessionBackend string `mapstructure:"SESSION_BACKEND"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	AdminUser      string `mapstructure:"ADMIN_USER"`
	AdminPassword  string `mapstructure:"ADMIN_PASSWORD"`

	// AdminSecretMode is derived from AdminPassword during LoadConfig.
	AdminSecretMode SecretMode `mapstructure:"-"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults cover
	// everything it could contain.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8090")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "cms")
	viper.SetDefault("DB_PASSWORD", "cms")
	viper.SetDefault("DB_NAME", "dimonte_cms")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SESSION_BACKEND", "db")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("ADMIN_USER", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "change-me")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.AdminSecretMode = DetectSecretMode(config.AdminPassword)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DetectSecretMode classifies the configured admin secret. Bcrypt hashes are
// recognized by their standard prefixes; everything else is treated as a
// plaintext secret.
func DetectSecretMode(secret string) SecretMode {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(secret, prefix) {
			return SecretBcrypt
		}
	}
	return SecretPlain
}

// IsProduction reports whether the app runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AdminUser == "" {
		return errors.New("ADMIN_USER is required")
	}
	if c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}

	if c.IsProduction() {
		if c.AdminPassword == "change-me" {
			return errors.New("ADMIN_PASSWORD must be changed from the default value in production")
		}
		if c.AdminSecretMode == SecretPlain {
			log.Println("WARNING: ADMIN_PASSWORD is stored in plaintext. Configure a bcrypt hash for production.")
		}
		if c.AllowedOrigins == "*" {
			return errors.New("ALLOWED_ORIGINS must not be '*' in production (credentials are enabled)")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	if c.SessionBackend != "db" && c.SessionBackend != "redis" {
		return fmt.Errorf("SESSION_BACKEND must be 'db' or 'redis', got %q", c.SessionBackend)
	}

	return nil
}
