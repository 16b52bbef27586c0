package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("IMAGE_STORAGE", "")
	t.Setenv("CART_DATE_MODE", "")
	t.Setenv("CART_DATE_UTC_OFFSET", "")
	t.Setenv("JWT_TOKEN_EXPIRY", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("MEDIA_BASE_URL", "")
	t.Setenv("MEDIA_BASE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TokenExpiry)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.Equal(t, "./media", cfg.Storage.MediaBasePath)
	assert.Equal(t, "http://localhost:4000/media", cfg.Storage.MediaBaseURL)
	assert.Equal(t, CartDateModeFirst, cfg.Cart.DateMode)
	assert.Equal(t, 8*time.Hour, cfg.Cart.DateUTCOffset)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "shop:secret@tcp(localhost:3306)/shop?parseTime=true&charset=utf8mb4&clientFoundRows=true", cfg.DSN())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		value         string
		errorContains string
	}{
		{name: "missing db host", key: "DB_HOST", value: "", errorContains: "DB_HOST is required"},
		{name: "invalid db port", key: "DB_PORT", value: "abc", errorContains: "invalid DB_PORT"},
		{name: "missing jwt secret", key: "JWT_SECRET", value: "", errorContains: "JWT_SECRET is required"},
		{name: "invalid expiry", key: "JWT_TOKEN_EXPIRY", value: "week", errorContains: "invalid JWT_TOKEN_EXPIRY"},
		{name: "invalid storage", key: "IMAGE_STORAGE", value: "ftp", errorContains: "invalid IMAGE_STORAGE"},
		{name: "s3 without bucket", key: "IMAGE_STORAGE", value: "s3", errorContains: "S3_BUCKET is required"},
		{name: "invalid cart mode", key: "CART_DATE_MODE", value: "range", errorContains: "invalid CART_DATE_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("S3_BUCKET", "")
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestLoad_S3Storage(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IMAGE_STORAGE", "S3")
	t.Setenv("S3_BUCKET", "avatars")
	t.Setenv("S3_REGION", "")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_PUBLIC_URL", "http://cdn.example.com/avatars/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.Equal(t, "avatars", cfg.Storage.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.S3Region)
	assert.Equal(t, "http://minio:9000", cfg.Storage.S3Endpoint)
	assert.Equal(t, "http://cdn.example.com/avatars", cfg.Storage.S3PublicURL)
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, parseOrigins(""))
	assert.Equal(t, []string{"*"}, parseOrigins(" , "))
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, parseOrigins("http://a.com, http://b.com"))
}
