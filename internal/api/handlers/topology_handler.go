package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/topology"
)

// TopologyHandler serves the topology reload endpoint. Reloads swap the
// registry snapshot atomically; existing bookings are never touched.
type TopologyHandler struct {
	registry *topology.Registry
	path     string
	logger   *slog.Logger
}

// NewTopologyHandler creates a new topology handler reloading from path.
func NewTopologyHandler(registry *topology.Registry, path string, logger *slog.Logger) *TopologyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopologyHandler{registry: registry, path: path, logger: logger}
}

// ReloadResponse reports the outcome of a topology reload.
type ReloadResponse struct {
	Version   int64     `json:"version"`
	Nodes     int       `json:"nodes"`
	GPUs      int       `json:"gpus"`
	Timestamp time.Time `json:"timestamp"`
}

// ReloadTopology godoc
// @Summary Reload the topology file
// @Description Re-read the node inventory from disk and swap it in atomically
// @Tags topology
// @Produce json
// @Success 200 {object} handlers.ReloadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/topology/reload [post]
func (h *TopologyHandler) ReloadTopology(c *gin.Context) {
	nodes, err := topology.LoadFile(h.path)
	if err != nil {
		h.logger.Error("topology reload failed", "path", h.path, "error", err)
		c.JSON(dto.FromError(err))
		return
	}
	if err := h.registry.Load(nodes); err != nil {
		h.logger.Error("topology reload rejected", "path", h.path, "error", err)
		c.JSON(dto.FromError(err))
		return
	}

	snap := h.registry.Snapshot()
	nodeCount, gpus := 0, 0
	for node := range snap.Nodes() {
		nodeCount++
		gpus += node.GPUCount()
	}

	h.logger.Info("topology reloaded",
		"path", h.path,
		"version", snap.Version(),
		"nodes", nodeCount,
		"gpus", gpus,
	)
	c.JSON(http.StatusOK, ReloadResponse{
		Version:   snap.Version(),
		Nodes:     nodeCount,
		GPUs:      gpus,
		Timestamp: time.Now().UTC(),
	})
}
