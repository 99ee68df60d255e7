package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database    DatabaseConfig
	App         AppConfig
	BigCommerce BigCommerceConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	Port        string
	// URL is the public base URL of this app. BigCommerce OAuth redirects
	// and the injected storefront widget script both point at it.
	URL           string
	WebhookSecret string
}

// BigCommerceConfig holds the app's OAuth credentials
type BigCommerceConfig struct {
	ClientID     string
	ClientSecret string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		fmt.Println("No .env file found")
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "boostcart"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			Port:          getEnv("APP_PORT", "8080"),
			URL:           getEnv("APP_URL", "http://localhost:8080"),
			WebhookSecret: getEnv("WEBHOOK_SECRET", "boostcart-webhook-secret"),
		},
		BigCommerce: BigCommerceConfig{
			ClientID:     getEnv("BC_CLIENT_ID", ""),
			ClientSecret: getEnv("BC_CLIENT_SECRET", ""),
		},
	}

	if config.BigCommerce.ClientID == "" || config.BigCommerce.ClientSecret == "" {
		fmt.Println("Warning: BC_CLIENT_ID / BC_CLIENT_SECRET not set, OAuth flows will fail")
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// IsProduction reports whether the app runs in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
