package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	Sources SourcesConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type SourcesConfig struct {
	IOMEnabled      bool
	IOMURL          string
	IOMPollInterval time.Duration
	CBPEnabled      bool
	CBPURL          string
	CBPPollInterval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 50),
		},
		Sources: SourcesConfig{
			IOMEnabled:      getEnvBool("IOM_ENABLED", true),
			IOMURL:          getEnv("IOM_URL", "https://missingmigrants.iom.int/data/export"),
			IOMPollInterval: getEnvDuration("IOM_POLL_INTERVAL", 24*time.Hour),
			CBPEnabled:      getEnvBool("CBP_ENABLED", true),
			CBPURL:          getEnv("CBP_URL", "https://www.cbp.gov/sites/default/files/assets/documents/nationwide-drug-seizures.csv"),
			CBPPollInterval: getEnvDuration("CBP_POLL_INTERVAL", 24*time.Hour),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/venue-intel.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Sources.IOMPollInterval < time.Minute {
		return fmt.Errorf("IOM poll interval must be at least 1 minute")
	}
	if c.Sources.CBPPollInterval < time.Minute {
		return fmt.Errorf("CBP poll interval must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
