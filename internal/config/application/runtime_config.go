package application

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment variables, and .env file
type RuntimeConfig struct {
	// API Configuration
	APIKey  string
	APIPort string

	// Development Mode
	DevMode bool

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Journal Database Configuration
	DBPath string

	// Energy Source Configuration
	SourceURL     string
	AttributesURL string
	SourceToken   string
	FetchTimeout  time.Duration

	// Adaptive Polling Configuration
	FastInterval   time.Duration
	SlowInterval   time.Duration
	QuietThreshold int

	// Spatial Lookup Configuration
	LookupTolerance float64

	// Identity Seed Configuration
	SeedPath string
}

// CLIValues carries the raw CLI flag values into config resolution
type CLIValues struct {
	APIKey          string
	APIPort         string
	LogLevel        string
	LogFormat       string
	LogOutput       string
	DBPath          string
	SourceURL       string
	AttributesURL   string
	SourceToken     string
	FetchTimeout    time.Duration
	FastInterval    time.Duration
	SlowInterval    time.Duration
	QuietThreshold  int
	LookupTolerance float64
	SeedPath        string
	DevMode         bool
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults
func LoadRuntimeConfig(cli CLIValues) *RuntimeConfig {
	return &RuntimeConfig{
		APIKey:          getValue(cli.APIKey, "CITYSYNC_API_KEY", ""),
		APIPort:         getValue(cli.APIPort, "CITYSYNC_API_PORT", "8080"),
		DevMode:         cli.DevMode || getBoolEnv("CITYSYNC_DEV_MODE", false),
		LogLevel:        getValue(cli.LogLevel, "CITYSYNC_LOG_LEVEL", "INFO"),
		LogFormat:       getValue(cli.LogFormat, "CITYSYNC_LOG_FORMAT", "text"),
		LogOutput:       getValue(cli.LogOutput, "CITYSYNC_LOG_OUTPUT", "stdout"),
		DBPath:          getValue(cli.DBPath, "CITYSYNC_DB_PATH", "journal.db"),
		SourceURL:       getValue(cli.SourceURL, "CITYSYNC_SOURCE_URL", ""),
		AttributesURL:   getValue(cli.AttributesURL, "CITYSYNC_ATTRIBUTES_URL", ""),
		SourceToken:     getValue(cli.SourceToken, "CITYSYNC_SOURCE_TOKEN", ""),
		FetchTimeout:    getDurationValue(cli.FetchTimeout, "CITYSYNC_FETCH_TIMEOUT", 30*time.Second),
		FastInterval:    getDurationValue(cli.FastInterval, "CITYSYNC_FAST_INTERVAL", 1*time.Second),
		SlowInterval:    getDurationValue(cli.SlowInterval, "CITYSYNC_SLOW_INTERVAL", 5*time.Second),
		QuietThreshold:  getIntValue(cli.QuietThreshold, "CITYSYNC_QUIET_CYCLES", 10),
		LookupTolerance: getFloatValue(cli.LookupTolerance, "CITYSYNC_LOOKUP_TOLERANCE", 10),
		SeedPath:        getValue(cli.SeedPath, "CITYSYNC_SEED_PATH", ""),
	}
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

func getDurationValue(cliValue time.Duration, envKey string, defaultValue time.Duration) time.Duration {
	if cliValue > 0 {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		if d, err := time.ParseDuration(envValue); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getIntValue(cliValue int, envKey string, defaultValue int) int {
	if cliValue > 0 {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		if v, err := strconv.Atoi(envValue); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

func getFloatValue(cliValue float64, envKey string, defaultValue float64) float64 {
	if cliValue > 0 {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		if v, err := strconv.ParseFloat(envValue, 64); err == nil && v >= 0 {
			return v
		}
	}
	return defaultValue
}

// Validate checks that required configuration is present
func (c *RuntimeConfig) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "api-key", Message: "API key is required (set CITYSYNC_API_KEY or use --api-key flag)"}
	}
	if c.SourceURL == "" {
		return &ConfigError{Field: "source-url", Message: "Source URL is required (set CITYSYNC_SOURCE_URL or use --source-url flag)"}
	}
	if c.SlowInterval < c.FastInterval {
		return &ConfigError{Field: "slow-interval", Message: "Slow interval must not be shorter than the fast interval"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
