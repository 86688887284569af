package eudrtrack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "http", cfg.Remote.Transport)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.True(t, cfg.Offline)
}

func TestConfigFromEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eudrtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: sqlite
  path: /var/lib/eudrtrack
remote:
  url: https://cms.example
  codec: cbor
`), 0o600))
	t.Setenv("EUDR_REMOTE_TRANSPORT", "ws")
	t.Setenv("EUDR_OFFLINE", "false")

	cfg, err := loadConfig(newViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "https://cms.example", cfg.Remote.URL)
	assert.Equal(t, "cbor", cfg.Remote.Codec)
	assert.Equal(t, "ws", cfg.Remote.Transport)
	assert.False(t, cfg.Offline)
}

func TestConfigRejectsUnknownValues(t *testing.T) {
	for key, value := range map[string]string{
		"EUDR_STORAGE_DRIVER":   "floppy",
		"EUDR_REMOTE_TRANSPORT": "carrier-pigeon",
		"EUDR_REMOTE_CODEC":     "xml",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := loadConfig(newViper(), "")
			assert.Error(t, err)
		})
	}

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("EUDR_STORAGE_DRIVER", "postgres")
		_, err := loadConfig(newViper(), "")
		assert.Error(t, err)
	})
}
