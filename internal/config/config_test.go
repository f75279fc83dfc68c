package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultTopologyPath, cfg.Topology.Path)
	assert.Equal(t, StorageInMemory, cfg.Storage.Type)
	assert.Equal(t, EventsNone, cfg.Events.Type)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("TOPOLOGY_PATH", "/etc/procplan/topology.yaml")
	t.Setenv("STORAGE_TYPE", "mongodb")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("EVENTS_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/etc/procplan/topology.yaml", cfg.Topology.Path)
	assert.Equal(t, StorageMongoDB, cfg.Storage.Type)
	assert.Equal(t, EventsRedis, cfg.Events.Type)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid server port")

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("STORAGE_TYPE", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, "invalid storage type")

	t.Setenv("STORAGE_TYPE", "mongodb")
	_, err = Load()
	assert.ErrorContains(t, err, "MONGODB_URI is required")

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("EVENTS_TYPE", "redis")
	_, err = Load()
	assert.ErrorContains(t, err, "REDIS_URL is required")
}
