package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcraft.yaml")
	content := `
server:
  addr: ":9090"
storage:
  driver: redis
  redis:
    addr: "localhost:6379"
    prefix: "bots"
    ttl: 1h
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "bots", cfg.Storage.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Storage.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "default", cfg.Flow.Name)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcraft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage":{"driver":"file","dir":"/tmp/flows"}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/flows", cfg.Storage.Dir)
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowcraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: s3\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestValidate_RedisNeedsAddr(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = DriverRedis
	assert.Error(t, cfg.Validate())
}
