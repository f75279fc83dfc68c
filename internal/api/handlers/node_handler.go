package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/topology"
)

// NodeHandler serves the topology read endpoints.
type NodeHandler struct {
	registry *topology.Registry
}

// NewNodeHandler creates a new node handler.
func NewNodeHandler(registry *topology.Registry) *NodeHandler {
	return &NodeHandler{registry: registry}
}

// ListNodes godoc
// @Summary List all nodes
// @Description Get the registered compute nodes and their GPUs
// @Tags nodes
// @Produce json
// @Success 200 {object} dto.NodeListResponse
// @Router /api/v1/nodes [get]
func (h *NodeHandler) ListNodes(c *gin.Context) {
	response := dto.NodeListResponse{Nodes: []dto.NodeResponse{}}
	for node := range h.registry.Nodes() {
		response.Nodes = append(response.Nodes, dto.ToNodeResponse(node))
	}
	response.Total = len(response.Nodes)
	c.JSON(http.StatusOK, response)
}

// GetNode godoc
// @Summary Get node by id
// @Description Get a single compute node with its GPU inventory
// @Tags nodes
// @Produce json
// @Param id path string true "Node id" example("node-a")
// @Success 200 {object} dto.NodeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/nodes/{id} [get]
func (h *NodeHandler) GetNode(c *gin.Context) {
	node, err := h.registry.Node(c.Param("id"))
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ToNodeResponse(node))
}
