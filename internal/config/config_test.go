package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, MediaBackendDisk, cfg.MediaBackend)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, 40_000_000, cfg.MaxImagePixels)
	assert.True(t, cfg.EphemeralSecret)
	assert.Len(t, cfg.JWTSecret, 32)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SKATEPARK_SERVER_PORT", "8080")
	t.Setenv("SKATEPARK_JWT_SECRET", "super-secret")
	t.Setenv("SKATEPARK_TOKEN_TTL", "5m")
	t.Setenv("SKATEPARK_MEDIA_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.False(t, cfg.EphemeralSecret)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, MediaBackendMemory, cfg.MediaBackend)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "SKATEPARK_MEDIA_BACKEND", "ftp"},
		{"s3 without bucket", "SKATEPARK_MEDIA_BACKEND", "s3"},
		{"zero upload size", "SKATEPARK_MAX_UPLOAD_SIZE", "0"},
		{"negative pixel cap", "SKATEPARK_MAX_IMAGE_PIXELS", "-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMediaStorageMemory(t *testing.T) {
	cfg := &Config{MediaBackend: MediaBackendMemory}

	store, err := cfg.MediaStorage()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v"), 0))
	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestBodyLimitAboveUploadCap(t *testing.T) {
	cfg := &Config{MaxUploadSize: 2 * 1024 * 1024}
	assert.Greater(t, cfg.BodyLimit(), int(cfg.MaxUploadSize))
}
