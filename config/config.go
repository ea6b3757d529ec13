package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment variables or .env file.
//
// Crawl settings (target URL, extraction schema, page timeout, browser flags)
// are fixed in crawler.DefaultConfig and are not read from the environment.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	SERVER_READ_TIMEOUT=15s
//	SERVER_WRITE_TIMEOUT=0s
//	SERVER_IDLE_TIMEOUT=60s
//	SHUTDOWN_TIMEOUT=10s
type Config struct {
	Server ServerConfig // HTTP server configuration
}

// ServerConfig holds HTTP server settings.
//
// Fields:
//   - Port: TCP port the HTTP server listens on (e.g., "8080").
//   - ReadTimeout / ReadHeaderTimeout / IdleTimeout: passed to http.Server.
//   - WriteTimeout: 0 disables it; a batch takes up to 90s per symbol.
//   - ShutdownTimeout: grace period for in-flight batches on SIGTERM.
type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// LoadConfig reads the configuration from .env file or environment variables
// and returns it by value. Callers pass it on explicitly; nothing is stored
// globally.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() Config {
	v := viper.New()

	// Default values
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_READ_HEADER_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", time.Duration(0))
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	v.AutomaticEnv()

	cfg := Config{
		Server: ServerConfig{
			Port:              v.GetString("SERVER_PORT"),
			ReadTimeout:       v.GetDuration("SERVER_READ_TIMEOUT"),
			ReadHeaderTimeout: v.GetDuration("SERVER_READ_HEADER_TIMEOUT"),
			WriteTimeout:      v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:       v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
	}

	validateConfig(cfg)
	return cfg
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig(cfg Config) {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		missing = append(missing, "SHUTDOWN_TIMEOUT")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
