package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP. An empty URL disables the queue, uploads are then
	// extracted inline.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Uploads
	UploadDir      string
	UploadWorkers  int
	MaxUploadBytes int64

	// Document AI
	DocAIProjectID   string
	DocAILocation    string
	DocAIProcessorID string
	ExtractTimeout   time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8000"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/factures.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "factures"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "extract_invoices"),

		UploadDir:      getEnv("UPLOAD_DIR", "./data/uploads"),
		UploadWorkers:  getEnvInt("UPLOAD_WORKERS", 4),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),

		DocAIProjectID:   getEnv("DOCAI_PROJECT_ID", ""),
		DocAILocation:    getEnv("DOCAI_LOCATION", "eu"),
		DocAIProcessorID: getEnv("DOCAI_PROCESSOR_ID", ""),
		ExtractTimeout:   getEnvDuration("EXTRACT_TIMEOUT", 60*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "sqlite"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate upload configuration
	if c.UploadDir == "" {
		errors = append(errors, "upload directory cannot be empty")
	}
	if c.UploadWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid upload workers %d: must be at least 1", c.UploadWorkers))
	} else if c.UploadWorkers > 64 {
		errors = append(errors, fmt.Sprintf("invalid upload workers %d: must be at most 64", c.UploadWorkers))
	}
	if c.MaxUploadBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid max upload bytes %d: must be positive", c.MaxUploadBytes))
	}

	// Validate Document AI configuration if a processor is configured
	if c.DocAIProcessorID != "" && c.DocAIProjectID == "" {
		errors = append(errors, "DOCAI_PROJECT_ID is required when DOCAI_PROCESSOR_ID is set")
	}

	if c.ExtractTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid extract timeout %v: must be at least 1 second", c.ExtractTimeout))
	} else if c.ExtractTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid extract timeout %v: must be at most 10 minutes", c.ExtractTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ExtractionEnabled reports whether a Document AI processor is configured.
func (c *Config) ExtractionEnabled() bool {
	return c.DocAIProjectID != "" && c.DocAIProcessorID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
