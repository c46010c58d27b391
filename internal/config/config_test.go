package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hikmah")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.CacheTimeout)
	assert.Equal(t, 6*time.Hour, cfg.PrayerTimesTTL)
	assert.Equal(t, "50000", cfg.IdentityProofThreshold.String())
	assert.Equal(t, 7, cfg.DefaultGracePeriodDays)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_S3NeedsBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hikmah")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hikmah")
	t.Setenv("IDENTITY_PROOF_THRESHOLD", "25000.50")
	t.Setenv("ALLOWED_ORIGINS", "https://a.org, https://b.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "25000.5", cfg.IdentityProofThreshold.String())
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.AllowedOrigins)
}
