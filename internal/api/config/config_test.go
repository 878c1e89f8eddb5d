package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "KOL-BD-Tool", cfg.AppName)
	assert.Equal(t, "sqlite:///./kol_bd_tool.db", cfg.DatabaseURL)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 10080, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenTTL())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.OriginsList())
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.MinIOEnabled())
	assert.Equal(t, 100, cfg.Limit.MaxRequests)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := writeEnv(t, "SECRET_KEY=from-file\nallowed_origins=http://a.com, http://b.com ,\nALGORITHM=hs512\nport=9000\nredis_addr=localhost:6379\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.OriginsList())
	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.RedisEnabled())
}

func TestProcessEnvOverridesFile(t *testing.T) {
	path := writeEnv(t, "secret_key=from-file\napp_name=FromFile\n")
	t.Setenv("APP_NAME", "FromEnv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.AppName)
	assert.Equal(t, "from-file", cfg.SecretKey)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingSecretKey)

	t.Setenv("SECRET_KEY", "x")
	t.Setenv("ALGORITHM", "RS256")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)

	t.Setenv("ALGORITHM", "HS256")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")
	_, err = Load("")
	assert.Error(t, err)
}
