// Package config loads runtime settings for the mapforge server and CLI
// from environment variables, with an optional .env file for local runs.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	Server ServerConfig
	Schema SchemaConfig
	Log    LogConfig
}

// ServerConfig configures the HTTP registry server.
type ServerConfig struct {
	Addr string
	Mode string // gin mode: debug, release, test
}

// SchemaConfig locates the entity definition file and the directory
// resolved against for fragment references.
type SchemaConfig struct {
	FilePath    string
	ResourceDir string
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load builds the configuration from the environment. A .env file in the
// working directory is read first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("MAPFORGE_ADDR", ":8080"),
			Mode: getEnv("MAPFORGE_GIN_MODE", "release"),
		},
		Schema: SchemaConfig{
			FilePath:    getEnv("MAPFORGE_SCHEMA", "./schema.yaml"),
			ResourceDir: getEnv("MAPFORGE_RESOURCE_DIR", "."),
		},
		Log: LogConfig{
			Level:  getEnv("MAPFORGE_LOG_LEVEL", "info"),
			Pretty: getEnvBool("MAPFORGE_LOG_PRETTY", false),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}
