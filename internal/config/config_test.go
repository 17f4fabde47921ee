package config_test

import (
	"testing"
	"time"

	"socialapi/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, int64(5*1024*1024), cfg.ProfileImageMaxBytes)
	assert.Equal(t, int64(10*1024*1024), cfg.PostImageMaxBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load(viper.New())
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("DATABASE_DRIVER", "SQLite")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			JWTSecret:            "s",
			TokenTTL:             time.Hour,
			DatabaseDriver:       "sqlite",
			StorageBackend:       "local",
			UploadDir:            "uploads",
			ProfileImageMaxBytes: 1,
			PostImageMaxBytes:    1,
		}
	}
	require.NoError(t, base().Validate())

	cfg := base()
	cfg.DatabaseDriver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.StorageBackend = "gcs"
	assert.ErrorContains(t, cfg.Validate(), "GCS_BUCKET")

	cfg = base()
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadGCSCredentialsFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "social-uploads")
	t.Setenv("GCS_CREDENTIALS_FILE", "/etc/gcs/key.json")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gcs", cfg.StorageBackend)
	assert.Equal(t, "/etc/gcs/key.json", cfg.GCSCredentialsFile)
}
