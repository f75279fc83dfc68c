package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
	"github.com/ulvgard/procplan/internal/timegrid"
)

// AvailabilityHandler serves the hour timeline and day grid endpoints.
type AvailabilityHandler struct {
	service   *reservation.Service
	projector *projector.Projector
}

// NewAvailabilityHandler creates a new availability handler.
func NewAvailabilityHandler(service *reservation.Service, proj *projector.Projector) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, projector: proj}
}

// GetAvailability godoc
// @Summary Per-GPU hour timeline
// @Description Get the free/booked hour cells for one GPU or for every GPU on
// @Description a node; omitting start and end selects the current day window
// @Tags availability
// @Produce json
// @Param gpu_id query string false "GPU id" example("node-a-gpu0")
// @Param node_id query string false "Node id" example("node-a")
// @Param start query string false "Window start (RFC 3339, hour aligned)"
// @Param end query string false "Window end (RFC 3339, hour aligned)"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	gpuID := c.Query("gpu_id")
	nodeID := c.Query("node_id")
	if (gpuID == "") == (nodeID == "") {
		c.JSON(dto.BadRequest("provide exactly one of gpu_id or node_id"))
		return
	}

	window, ok := h.window(c)
	if !ok {
		return
	}

	if gpuID != "" {
		cells, err := h.service.AvailabilityForGPU(c.Request.Context(), gpuID, window)
		if err != nil {
			c.JSON(dto.FromError(err))
			return
		}
		c.JSON(http.StatusOK, dto.ToAvailabilityResponse(gpuID, window, cells))
		return
	}

	node, err := h.service.Registry().Node(nodeID)
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	response := dto.NodeAvailabilityResponse{
		NodeID: node.ID,
		Start:  window.Start,
		End:    window.End,
		GPUs:   make([]dto.AvailabilityResponse, 0, len(node.GPUs)),
	}
	for _, gpu := range node.GPUs {
		cells, err := h.service.AvailabilityForGPU(c.Request.Context(), gpu.ID, window)
		if err != nil {
			c.JSON(dto.FromError(err))
			return
		}
		response.GPUs = append(response.GPUs, dto.ToAvailabilityResponse(gpu.ID, window, cells))
	}
	c.JSON(http.StatusOK, response)
}

// GetGrid godoc
// @Summary Day/GPU availability grid
// @Description Get the day-by-day occupancy matrix for all GPUs or one node
// @Tags availability
// @Produce json
// @Param scope query string false "Node id, or all" default(all)
// @Param start query string false "First day (RFC 3339, floored to midnight)"
// @Param days query int false "Number of day columns" default(14)
// @Success 200 {object} dto.GridResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/grid [get]
func (h *AvailabilityHandler) GetGrid(c *gin.Context) {
	scope := c.DefaultQuery("scope", "all")
	if scope == "all" {
		scope = ""
	}

	firstDay := timegrid.FloorDay(time.Now().UTC())
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(dto.BadRequest("invalid start timestamp: " + raw))
			return
		}
		firstDay = parsed.UTC()
	}

	days := 14
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(dto.BadRequest("invalid days value: " + raw))
			return
		}
		days = parsed
	}

	grid, err := h.projector.Grid(c.Request.Context(), scope, firstDay, days)
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ToGridResponse(grid))
}

// window parses the optional start/end query bounds, falling back to the
// service's default day window.
func (h *AvailabilityHandler) window(c *gin.Context) (domain.TimeSlot, bool) {
	rawStart, rawEnd := c.Query("start"), c.Query("end")
	if rawStart == "" && rawEnd == "" {
		return h.service.DefaultAvailabilityWindow(), true
	}
	if rawStart == "" || rawEnd == "" {
		c.JSON(dto.BadRequest("start and end must be provided together"))
		return domain.TimeSlot{}, false
	}

	start, err := time.Parse(time.RFC3339, rawStart)
	if err != nil {
		c.JSON(dto.BadRequest("invalid start timestamp: " + rawStart))
		return domain.TimeSlot{}, false
	}
	end, err := time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		c.JSON(dto.BadRequest("invalid end timestamp: " + rawEnd))
		return domain.TimeSlot{}, false
	}
	return domain.TimeSlot{Start: start.UTC(), End: end.UTC()}, true
}
