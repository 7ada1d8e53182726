// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL   string
	MaxComments  int
	HTTPTimeout  time.Duration
	ListenAddr   string
	DBPath       string
	LiveInterval time.Duration
	LogLevel     slog.Level
	// EnvFile is the dotenv file that was loaded, or "" when none was found.
	EnvFile string
}

// Load reads configuration from environment variables and returns a validated Config.
//
// A dotenv file (COMMENTPANEL_ENV_FILE, default ".env") is loaded first when it
// exists. Variables already set in the process environment take precedence
// over the file.
//
// Optional variables with defaults: COMMENTPANEL_API_BASE_URL
// (http://localhost:5000/api), COMMENTPANEL_MAX_COMMENTS (100),
// COMMENTPANEL_HTTP_TIMEOUT (60s), COMMENTPANEL_LISTEN_ADDR (127.0.0.1:8080),
// COMMENTPANEL_DB_PATH (commentpanel.db), COMMENTPANEL_LIVE_INTERVAL (5s),
// COMMENTPANEL_LOG_LEVEL (info).
func Load() (*Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv("COMMENTPANEL_ENV_FILE"); ok {
		envFile = v
	}

	loaded, err := loadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	apiBaseURL := "http://localhost:5000/api"
	if v, ok := os.LookupEnv("COMMENTPANEL_API_BASE_URL"); ok {
		if err := validateBaseURL(v); err != nil {
			return nil, fmt.Errorf("COMMENTPANEL_API_BASE_URL %w", err)
		}
		apiBaseURL = v
	}

	maxComments := 100
	if v, ok := os.LookupEnv("COMMENTPANEL_MAX_COMMENTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("COMMENTPANEL_MAX_COMMENTS must be a positive integer, got %q", v)
		}
		maxComments = n
	}

	httpTimeout, err := positiveDuration("COMMENTPANEL_HTTP_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	liveInterval, err := positiveDuration("COMMENTPANEL_LIVE_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("COMMENTPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "commentpanel.db"
	if v, ok := os.LookupEnv("COMMENTPANEL_DB_PATH"); ok {
		dbPath = v
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("COMMENTPANEL_LOG_LEVEL"); ok {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("COMMENTPANEL_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		APIBaseURL:   apiBaseURL,
		MaxComments:  maxComments,
		HTTPTimeout:  httpTimeout,
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		LiveInterval: liveInterval,
		LogLevel:     logLevel,
		EnvFile:      loaded,
	}, nil
}

// loadEnvFile applies path to the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load env file %s: %w", path, err)
	}
	return path, nil
}

func positiveDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func validateBaseURL(v string) error {
	u, err := url.Parse(v)
	if err != nil {
		return fmt.Errorf("has invalid URL %q: %w", v, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", v)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", v)
	}
	return nil
}
