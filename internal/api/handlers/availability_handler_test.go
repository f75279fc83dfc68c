package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/domain"
	"github.com/ulvgard/procplan/internal/reservation"
)

func mustBook(t *testing.T, fx *testFixture, initials string, start, end time.Time, gpuIDs ...string) *domain.Booking {
	t.Helper()
	booking, err := fx.service.CreateBooking(context.Background(), reservation.CreateRequest{
		Initials: initials,
		Slot:     domain.TimeSlot{Start: start, End: end},
		GPUIDs:   gpuIDs,
	})
	require.NoError(t, err)
	return booking
}

func TestAvailabilityHandler_GPUTimeline(t *testing.T) {
	fx := newTestFixture(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	booking := mustBook(t, fx, "AB", day.Add(2*time.Hour), day.Add(4*time.Hour), "node-a-gpu0")

	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, w := setupGinTest()
	router.GET("/availability", handler.GetAvailability)

	url := "/availability?gpu_id=node-a-gpu0&start=2024-06-01T00:00:00Z&end=2024-06-01T06:00:00Z"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "node-a-gpu0", response.GPUID)
	require.Len(t, response.Hours, 6)

	assert.Equal(t, "free", response.Hours[0].Status)
	assert.Equal(t, "free", response.Hours[1].Status)
	for _, i := range []int{2, 3} {
		assert.Equal(t, "booked", response.Hours[i].Status)
		require.NotNil(t, response.Hours[i].Booking)
		assert.Equal(t, booking.ID, response.Hours[i].Booking.BookingID)
		assert.Equal(t, "AB", response.Hours[i].Booking.Initials)
	}
	assert.Equal(t, "free", response.Hours[4].Status)
	assert.Equal(t, "free", response.Hours[5].Status)
}

func TestAvailabilityHandler_NodeTimelines(t *testing.T) {
	fx := newTestFixture(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mustBook(t, fx, "AB", day, day.Add(2*time.Hour), "node-a-gpu1")

	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, w := setupGinTest()
	router.GET("/availability", handler.GetAvailability)

	url := "/availability?node_id=node-a&start=2024-06-01T00:00:00Z&end=2024-06-01T02:00:00Z"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.NodeAvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "node-a", response.NodeID)
	require.Len(t, response.GPUs, 2)
	assert.Equal(t, "node-a-gpu0", response.GPUs[0].GPUID)
	assert.Equal(t, "free", response.GPUs[0].Hours[0].Status)
	assert.Equal(t, "node-a-gpu1", response.GPUs[1].GPUID)
	assert.Equal(t, "booked", response.GPUs[1].Hours[0].Status)
}

func TestAvailabilityHandler_ParamValidation(t *testing.T) {
	fx := newTestFixture(t)
	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, _ := setupGinTest()
	router.GET("/availability", handler.GetAvailability)

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"neither selector", "/availability", http.StatusBadRequest},
		{"both selectors", "/availability?gpu_id=node-a-gpu0&node_id=node-a", http.StatusBadRequest},
		{"only start", "/availability?gpu_id=node-a-gpu0&start=2024-06-01T00:00:00Z", http.StatusBadRequest},
		{"bad timestamp", "/availability?gpu_id=node-a-gpu0&start=noon&end=2024-06-01T06:00:00Z", http.StatusBadRequest},
		{"unknown gpu", "/availability?gpu_id=node-z-gpu9&start=2024-06-01T00:00:00Z&end=2024-06-01T06:00:00Z", http.StatusNotFound},
		{"unknown node", "/availability?node_id=node-z&start=2024-06-01T00:00:00Z&end=2024-06-01T06:00:00Z", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAvailabilityHandler_DefaultWindow(t *testing.T) {
	fx := newTestFixture(t)
	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, w := setupGinTest()
	router.GET("/availability", handler.GetAvailability)

	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/availability?gpu_id=node-a-gpu0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Hours, 24)
	assert.Equal(t, 24*time.Hour, response.End.Sub(response.Start))
}

func TestAvailabilityHandler_Grid(t *testing.T) {
	fx := newTestFixture(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	booking := mustBook(t, fx, "AB", day.Add(6*time.Hour), day.Add(12*time.Hour), "node-a-gpu0")

	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, w := setupGinTest()
	router.GET("/grid", handler.GetGrid)

	url := "/grid?start=2024-06-01T00:00:00Z&days=3"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.GridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "all", response.Scope)
	require.Len(t, response.Days, 3)
	require.Len(t, response.Rows, 3)

	assert.Equal(t, "node-a-gpu0", response.Rows[0].GPU.ID)
	require.Len(t, response.Rows[0].Cells[0].Bookings, 1)
	assert.Equal(t, booking.ID, response.Rows[0].Cells[0].Bookings[0].BookingID)
	assert.Empty(t, response.Rows[0].Cells[1].Bookings)
	assert.Empty(t, response.Rows[1].Cells[0].Bookings)
}

func TestAvailabilityHandler_Grid_NodeScope(t *testing.T) {
	fx := newTestFixture(t)
	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, w := setupGinTest()
	router.GET("/grid", handler.GetGrid)

	url := "/grid?scope=node-b&start=2024-06-01T00:00:00Z&days=2"
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.GridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "node-b", response.Scope)
	require.Len(t, response.Rows, 1)
	assert.Equal(t, "node-b-gpu0", response.Rows[0].GPU.ID)
}

func TestAvailabilityHandler_Grid_Validation(t *testing.T) {
	fx := newTestFixture(t)
	handler := NewAvailabilityHandler(fx.service, fx.proj)
	router, _ := setupGinTest()
	router.GET("/grid", handler.GetGrid)

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"bad days", "/grid?days=three", http.StatusBadRequest},
		{"zero days", "/grid?days=0", http.StatusBadRequest},
		{"bad start", "/grid?start=tomorrow", http.StatusBadRequest},
		{"unknown scope", "/grid?scope=node-z", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
