package config

import (
	"os"
	"strconv"
	"strings"

	"healthdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	Ops      OpsConfig
	Database DatabaseConfig
	Export   ExportConfig
}

// DataConfig holds dataset source settings
type DataConfig struct {
	Path string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// OpsConfig holds the internal operations listener settings
type OpsConfig struct {
	Port        string
	EnablePprof bool
}

// DatabaseConfig holds the optional load-catalog database settings.
// An empty URL disables the catalog entirely.
type DatabaseConfig struct {
	URL string
}

// ExportConfig holds subset export settings
type ExportConfig struct {
	Concurrency int64
	RowLimit    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	config.Server = *loadServerConfig()
	config.Ops = *loadOpsConfig()
	config.Database = *loadDatabaseConfig()
	config.Export = *loadExportConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() (*DataConfig, error) {
	path := os.Getenv("DATA_PATH")
	if path == "" {
		return nil, errors.ConfigInvalid("DATA_PATH is required")
	}

	return &DataConfig{Path: path}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}
}

func loadOpsConfig() *OpsConfig {
	return &OpsConfig{
		Port:        getEnvOrDefault("OPS_PORT", "6060"),
		EnablePprof: getEnvBoolOrDefault("ENABLE_PPROF", false),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		Concurrency: int64(getEnvIntOrDefault("EXPORT_CONCURRENCY", 2)),
		RowLimit:    getEnvIntOrDefault("EXPORT_ROW_LIMIT", 100000),
	}
}

func validateConfig(config *Config) error {
	if config.Data.Path == "" {
		return errors.ConfigInvalid("data path is required")
	}
	if config.Export.Concurrency < 1 {
		return errors.ConfigInvalid("EXPORT_CONCURRENCY must be at least 1")
	}
	if config.Export.RowLimit < 1 {
		return errors.ConfigInvalid("EXPORT_ROW_LIMIT must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
