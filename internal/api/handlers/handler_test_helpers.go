package handlers

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/events"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
	"github.com/ulvgard/procplan/internal/storage/inmemory"
	"github.com/ulvgard/procplan/internal/topology"
)

// testFixture wires a real service over the in-memory repository so handler
// tests exercise the full request path.
type testFixture struct {
	registry *topology.Registry
	repo     *inmemory.BookingRepository
	service  *reservation.Service
	proj     *projector.Projector
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	registry, err := topology.NewRegistry([]domain.Node{
		{
			ID:   "node-a",
			Name: "Node A",
			GPUs: []domain.GPU{
				{ID: "node-a-gpu0", Kind: "NVIDIA H100 80GB HBM3"},
				{ID: "node-a-gpu1", Kind: "NVIDIA H100 80GB HBM3"},
			},
		},
		{
			ID:   "node-b",
			Name: "Node B",
			GPUs: []domain.GPU{
				{ID: "node-b-gpu0", Kind: "NVIDIA A100 40GB"},
			},
		},
	})
	require.NoError(t, err)

	repo := inmemory.NewBookingRepository()
	service := reservation.NewService(repo, registry, events.NopPublisher{}, slog.Default())
	return &testFixture{
		registry: registry,
		repo:     repo,
		service:  service,
		proj:     projector.New(registry, repo),
	}
}

func setupGinTest() (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	w := httptest.NewRecorder()
	return router, w
}
