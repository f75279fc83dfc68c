package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopologyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTopologyHandler_ReloadTopology(t *testing.T) {
	fx := newTestFixture(t)
	path := writeTopologyFile(t, `
nodes:
  - id: node-a
    name: Node A
    gpus:
      - id: node-a-gpu0
        kind: NVIDIA H100 80GB HBM3
  - id: node-c
    name: Node C
    gpus:
      - id: node-c-gpu0
        kind: NVIDIA A100 40GB
      - id: node-c-gpu1
        kind: NVIDIA A100 40GB
`)

	handler := NewTopologyHandler(fx.registry, path, nil)
	router, w := setupGinTest()
	router.POST("/topology/reload", handler.ReloadTopology)

	before := fx.registry.Snapshot().Version()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/topology/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response ReloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Greater(t, response.Version, before)
	assert.Equal(t, 2, response.Nodes)
	assert.Equal(t, 3, response.GPUs)

	_, err := fx.registry.Node("node-c")
	assert.NoError(t, err)
	_, err = fx.registry.Node("node-b")
	assert.Error(t, err)
}

func TestTopologyHandler_ReloadTopology_MissingFile(t *testing.T) {
	fx := newTestFixture(t)
	handler := NewTopologyHandler(fx.registry, filepath.Join(t.TempDir(), "absent.yaml"), nil)
	router, w := setupGinTest()
	router.POST("/topology/reload", handler.ReloadTopology)

	before := fx.registry.Snapshot().Version()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/topology/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before, fx.registry.Snapshot().Version())
}

func TestTopologyHandler_ReloadTopology_InvalidConfigKeepsCurrent(t *testing.T) {
	fx := newTestFixture(t)
	path := writeTopologyFile(t, `
nodes:
  - id: node-a
    gpus:
      - id: dup-gpu
      - id: dup-gpu
`)

	handler := NewTopologyHandler(fx.registry, path, nil)
	router, w := setupGinTest()
	router.POST("/topology/reload", handler.ReloadTopology)

	before := fx.registry.Snapshot().Version()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/topology/reload", nil))

	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.Equal(t, before, fx.registry.Snapshot().Version())
	_, err := fx.registry.Node("node-a")
	assert.NoError(t, err)
}
