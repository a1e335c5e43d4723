package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "payqr", cfg.Storage.Bucket)
	assert.Equal(t, 320, cfg.Render.Size)
	assert.Equal(t, "medium", cfg.Render.Recovery)
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.Equal(t, 30, cfg.Prefs.FlushSeconds)
	assert.Equal(t, "gallery", cfg.Gallery.Prefix)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SERVER_PORT=9090\nCACHE_CAPACITY=0\nPAYEE_INN=7701234567\nRENDER_RECOVERY=high\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SERVER_PORT", "CACHE_CAPACITY", "PAYEE_INN", "RENDER_RECOVERY"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Cache.Capacity)
	assert.Equal(t, "7701234567", cfg.Payee.PayeeINN)
	assert.Equal(t, "high", cfg.Render.Recovery)
}
