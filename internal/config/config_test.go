package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, "local", cfg.Upload.Driver)
	assert.Equal(t, int64(10485760), cfg.Upload.MaxImageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_SECRET", "super-secreto")
	t.Setenv("UPLOAD_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "quotes-images")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "super-secreto", cfg.JWT.Secret)
	assert.Equal(t, "s3", cfg.Upload.Driver)
	assert.Equal(t, "quotes-images", cfg.S3.Bucket)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.DBName = "quotes"

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=quotes sslmode=disable",
		cfg.GetDSN())

	// 配了完整 URL 时优先用 URL
	cfg.Database.URL = "postgres://u:p@host:5432/quotes"
	assert.Equal(t, "postgres://u:p@host:5432/quotes", cfg.GetDSN())
}

func TestIsImageType(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	assert.True(t, cfg.IsImageType("jpg"))
	assert.True(t, cfg.IsImageType(".PNG"))
	assert.False(t, cfg.IsImageType("exe"))
	assert.False(t, cfg.IsImageType(""))
}
