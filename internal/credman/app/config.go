package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ClientID     string // Required: client identifier registered with the provider
	ClientSecret string // Required: client secret registered with the provider
	AuthorizeURL string // Required: provider authorization endpoint
	TokenURL     string // Required: provider token endpoint
	RedirectURI  string // Optional: callback URL sent to the provider
	StateSecret  string // Optional: static suffix appended to state tokens

	RefreshGrantType string        // Optional: grant type for refreshes (default: refresh_token)
	RefreshWeekday   time.Weekday  // Optional: weekday the scheduler fires on (default: Sunday)
	RefreshAt        time.Duration // Optional: offset from UTC midnight on that weekday (default: 3h)

	MasterKeyFile string // Optional: path to the at-rest sealing key (falls back to CREDMAN_MASTER_KEY)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./credman.db)
	ListenAddr          string        // Optional: HTTP listen address (default: :8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

func LoadConfig() Config {
	return Config{
		ClientID:     os.Getenv("CREDMAN_CLIENT_ID"),
		ClientSecret: os.Getenv("CREDMAN_CLIENT_SECRET"),
		AuthorizeURL: os.Getenv("CREDMAN_AUTHORIZE_URL"),
		TokenURL:     os.Getenv("CREDMAN_TOKEN_URL"),
		RedirectURI:  os.Getenv("CREDMAN_REDIRECT_URI"),
		StateSecret:  os.Getenv("CREDMAN_STATE_SECRET"),

		RefreshGrantType: getEnvOrDefault("CREDMAN_REFRESH_GRANT_TYPE", "refresh_token"),
		RefreshWeekday:   getEnvWeekdayOrDefault("CREDMAN_REFRESH_WEEKDAY", time.Sunday),
		RefreshAt:        getEnvDurationOrDefault("CREDMAN_REFRESH_AT", 3*time.Hour),

		MasterKeyFile: os.Getenv("CREDMAN_MASTER_KEY_FILE"),

		DatabaseFile:        getEnvOrDefault("CREDMAN_DATABASE_FILE", "credman.db"),
		ListenAddr:          getEnvOrDefault("CREDMAN_LISTEN_ADDR", ":8080"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "3h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func getEnvWeekdayOrDefault(key string, defaultValue time.Weekday) time.Weekday {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if weekday, ok := parseWeekday(value); ok {
		return weekday
	}

	return defaultValue
}

func parseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}

	// Accept numeric form (0 = Sunday .. 6 = Saturday)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), true
	}

	return 0, false
}
