package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Backend selection
	DataBackend   string
	DataDirectory string

	// Auth
	AuthGoogleClientID     string
	AuthGoogleClientSecret string
	AuthGoogleRedirectURL  string
	AuthAllowedDomain      string
	AuthSessionSecret      string
	AuthSessionTTLHours    int
	AuthAdminUser          string
	AuthAdminPasswordHash  string
	AuthDefaultTitle       string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/pointage.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pointage"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "record_changes"),

		DataBackend:   getEnv("DATA_BACKEND", "memory"),
		DataDirectory: getEnv("DATA_DIRECTORY", "data"),

		AuthGoogleClientID:     getEnv("AUTH_GOOGLE_CLIENT_ID", ""),
		AuthGoogleClientSecret: getEnv("AUTH_GOOGLE_CLIENT_SECRET", ""),
		AuthGoogleRedirectURL:  getEnv("AUTH_GOOGLE_REDIRECT_URL", ""),
		AuthAllowedDomain:      getEnv("AUTH_ALLOWED_DOMAIN", ""),
		AuthSessionSecret:      getEnv("AUTH_SESSION_SECRET", ""),
		AuthSessionTTLHours:    getEnvInt("AUTH_SESSION_TTL_HOURS", 72),
		AuthAdminUser:          getEnv("AUTH_ADMIN_USER", ""),
		AuthAdminPasswordHash:  getEnv("AUTH_ADMIN_PASSWORD_HASH", ""),
		AuthDefaultTitle:       getEnv("AUTH_DEFAULT_TITLE", "Consultant RH"),
	}

	return cfg
}

// AuthEnabled reports whether any sign-in method is configured. Without
// one the app runs open, which is fine for local development.
func (c *Config) AuthEnabled() bool {
	return c.GoogleAuthEnabled() || c.AdminLoginEnabled()
}

func (c *Config) GoogleAuthEnabled() bool {
	return c.AuthGoogleClientID != "" && c.AuthGoogleClientSecret != "" && c.AuthGoogleRedirectURL != ""
}

func (c *Config) AdminLoginEnabled() bool {
	return c.AuthAdminUser != "" && c.AuthAdminPasswordHash != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate auth configuration
	if c.GoogleAuthEnabled() {
		if redirect, err := url.Parse(c.AuthGoogleRedirectURL); err != nil || redirect.Scheme == "" || redirect.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid Google redirect URL '%s': must be an absolute URL", c.AuthGoogleRedirectURL))
		}
		if c.AuthAllowedDomain == "" {
			errors = append(errors, "AUTH_ALLOWED_DOMAIN is required when Google sign-in is configured")
		}
	}

	if c.AuthEnabled() && c.AuthSessionSecret == "" {
		errors = append(errors, "AUTH_SESSION_SECRET is required when a sign-in method is configured")
	}
	if c.AuthSessionSecret != "" && len(c.AuthSessionSecret) < 32 {
		errors = append(errors, "AUTH_SESSION_SECRET must be at least 32 characters")
	}

	if c.AuthSessionTTLHours < 1 {
		errors = append(errors, fmt.Sprintf("invalid session TTL %d hours: must be at least 1", c.AuthSessionTTLHours))
	} else if c.AuthSessionTTLHours > 24*30 {
		errors = append(errors, fmt.Sprintf("invalid session TTL %d hours: must be at most 720", c.AuthSessionTTLHours))
	}

	if c.AuthAdminPasswordHash != "" && !strings.HasPrefix(c.AuthAdminPasswordHash, "$2") {
		errors = append(errors, "AUTH_ADMIN_PASSWORD_HASH must be a bcrypt hash")
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
