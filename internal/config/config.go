package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings of the client.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Store       StoreConfig
	Watchdog    WatchdogConfig
	Logger      LoggerConfig
	Shutdown    ShutdownConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type StoreConfig struct {
	Path string
}

type WatchdogConfig struct {
	Interval time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type ShutdownConfig struct {
	Timeout time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the client can start anywhere.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskwire"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:        getString("API_BASE_URL", "http://localhost:8080"),
			RequestTimeout: getDuration("API_REQUEST_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Path: getString("STORE_PATH", "./data/taskwire.db"),
		},
		Watchdog: WatchdogConfig{
			Interval: getDuration("TOKEN_CHECK_INTERVAL", time.Minute),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
		Shutdown: ShutdownConfig{
			Timeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
