package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/events"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
	"github.com/ulvgard/procplan/internal/storage/inmemory"
	"github.com/ulvgard/procplan/internal/topology"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := topology.NewRegistry([]domain.Node{
		{
			ID: "node-a",
			GPUs: []domain.GPU{
				{ID: "node-a-gpu0", Kind: "NVIDIA H100 80GB HBM3"},
				{ID: "node-a-gpu1", Kind: "NVIDIA H100 80GB HBM3"},
			},
		},
	})
	require.NoError(t, err)

	repo := inmemory.NewBookingRepository()
	service := reservation.NewService(repo, registry, events.NopPublisher{}, slog.Default())
	return NewRouter(service, projector.New(registry, repo), "config/topology.yaml", slog.Default())
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_BookingLifecycle(t *testing.T) {
	router := newTestRouter(t)
	engine := router.Engine()

	// create
	create := httptest.NewRecorder()
	body := `{"initials": "AB", "priority": "high", "start": "2024-06-01T00:00:00Z",
		"end": "2024-06-01T08:00:00Z", "gpu_ids": ["node-a-gpu0"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(create, req)
	require.Equal(t, http.StatusCreated, create.Code)

	var booking dto.BookingResponse
	require.NoError(t, json.Unmarshal(create.Body.Bytes(), &booking))

	// read back
	get := httptest.NewRecorder()
	engine.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil))
	assert.Equal(t, http.StatusOK, get.Code)

	// the availability timeline shows the occupied hours
	avail := httptest.NewRecorder()
	url := "/api/v1/availability?gpu_id=node-a-gpu0&start=2024-06-01T00:00:00Z&end=2024-06-01T08:00:00Z"
	engine.ServeHTTP(avail, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, avail.Code)
	var timeline dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(avail.Body.Bytes(), &timeline))
	require.Len(t, timeline.Hours, 8)
	for _, cell := range timeline.Hours {
		assert.Equal(t, "booked", cell.Status)
	}

	// complete early, then the grid no longer shows it
	complete := httptest.NewRecorder()
	engine.ServeHTTP(complete, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/complete", nil))
	require.Equal(t, http.StatusOK, complete.Code)

	grid := httptest.NewRecorder()
	engine.ServeHTTP(grid, httptest.NewRequest(http.MethodGet, "/api/v1/grid?start=2024-06-01T00:00:00Z&days=1", nil))
	require.Equal(t, http.StatusOK, grid.Code)
	var gridResp dto.GridResponse
	require.NoError(t, json.Unmarshal(grid.Body.Bytes(), &gridResp))
	for _, row := range gridResp.Rows {
		for _, cell := range row.Cells {
			assert.Empty(t, cell.Bookings)
		}
	}
}

func TestRouter_NodesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nodes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.NodeListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
