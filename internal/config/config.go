package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DatabaseDriver string // postgres or sqlite
	DatabaseDSN    string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	StorageBackend     string // local or gcs
	UploadDir          string
	GCSBucket          string
	GCSCredentialsFile string // service account key file; empty uses ADC

	ProfileImageMaxBytes int64
	PostImageMaxBytes    int64

	RabbitMQURL   string // empty disables event publishing
	RabbitMQQueue string
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=social port=5432 sslmode=disable")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PROFILE_IMAGE_MAX_BYTES", 5*1024*1024)
	v.SetDefault("POST_IMAGE_MAX_BYTES", 10*1024*1024)
	v.SetDefault("RABBITMQ_QUEUE", "social_events")
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		AppEnv:   v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DatabaseDriver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),

		JWTSecret:  v.GetString("JWT_SECRET"),
		TokenTTL:   v.GetDuration("TOKEN_TTL"),
		BcryptCost: v.GetInt("BCRYPT_COST"),

		StorageBackend:     strings.ToLower(v.GetString("STORAGE_BACKEND")),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		GCSBucket:          v.GetString("GCS_BUCKET"),
		GCSCredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),

		ProfileImageMaxBytes: v.GetInt64("PROFILE_IMAGE_MAX_BYTES"),
		PostImageMaxBytes:    v.GetInt64("POST_IMAGE_MAX_BYTES"),

		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		RabbitMQQueue: v.GetString("RABBITMQ_QUEUE"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.StorageBackend {
	case "local":
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local storage backend")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the gcs storage backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.ProfileImageMaxBytes <= 0 || c.PostImageMaxBytes <= 0 {
		return fmt.Errorf("image size limits must be positive")
	}
	return nil
}

// IsProduction reports whether internal error detail must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
