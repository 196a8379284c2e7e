package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Share.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifespan)
	assert.Equal(t, "cv-studio-api", cfg.Auth.Issuer)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "app:\n  port: \"9000\"\nstorage:\n  driver: memory\nshare:\n  cache_ttl: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_ISSUER", "cv-studio-staging")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Share.CacheTTL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "cv-studio-staging", cfg.Auth.Issuer)
}
