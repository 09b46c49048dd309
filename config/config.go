package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	APIBaseURL  string
	SessionFile string
	PageSize    int
	HTTPTimeout int // seconds
	Port        string
	GoEnv       string
	DatabaseURL string
	LogLevel    string
	LogJSON     bool
}

var loadedConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			log.Debug("No .env file found, using system environment variables")
		}
	} else {
		log.Debugf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080/api"),
		SessionFile: getEnv("SESSION_FILE", defaultSessionFile()),
		PageSize:    getEnvInt("PAGE_SIZE", 10),
		HTTPTimeout: getEnvInt("HTTP_TIMEOUT_SECONDS", 15),
		Port:        getEnv("PORT", "8080"),
		GoEnv:       env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnv("LOG_JSON", "false") == "true",
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	loadedConfig = config
	return config, nil
}

// GetConfig returns the most recently loaded configuration
func GetConfig() *Config {
	return loadedConfig
}

// SetConfig replaces the loaded configuration (primarily for testing)
func SetConfig(c *Config) {
	loadedConfig = c
}

// Validate checks that all required configuration values are sane
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	if c.HTTPTimeout < 1 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be at least 1, got %d", c.HTTPTimeout)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Timeout returns the HTTP client timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// ConfigureLogging applies the configured log level and format to logrus
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".salesdash-session.json"
	}
	return home + "/.salesdash-session.json"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Ignoring non-numeric %s=%q", key, value)
		return defaultValue
	}
	return n
}
