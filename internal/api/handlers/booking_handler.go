package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ulvgard/procplan/internal/api/dto"
	"github.com/ulvgard/procplan/internal/reservation"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	service *reservation.Service
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(service *reservation.Service) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking godoc
// @Summary Create a booking
// @Description Reserve GPUs for an hour-aligned time slot, either by explicit
// @Description GPU ids or by count with optional node scope
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body dto.CreateBookingRequest true "Booking request"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(dto.BadRequest("invalid request body: " + err.Error()))
		return
	}

	slot, err := req.Slot()
	if err != nil {
		c.JSON(dto.BadRequest(err.Error()))
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), reservation.CreateRequest{
		Initials:  req.Initials,
		Slot:      slot,
		Priority:  req.Priority,
		GPUIDs:    req.GPUIDs,
		GPUCount:  req.GPUCount,
		NodeScope: req.NodeID,
	})
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// GetBooking godoc
// @Summary Get booking by id
// @Tags bookings
// @Produce json
// @Param id path int true "Booking id" example(42)
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// CompleteBooking godoc
// @Summary Complete a booking
// @Description Mark an active booking done, releasing its GPUs from the
// @Description completion hour onward
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking id" example(42)
// @Param completion body dto.CompleteBookingRequest false "Completion time"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req dto.CompleteBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(dto.BadRequest("invalid request body: " + err.Error()))
			return
		}
	}
	completedAt, err := req.Time()
	if err != nil {
		c.JSON(dto.BadRequest(err.Error()))
		return
	}

	booking, err := h.service.MarkDone(c.Request.Context(), id, completedAt)
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Cancel an active booking, releasing its GPUs entirely
// @Tags bookings
// @Produce json
// @Param id path int true "Booking id" example(42)
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/bookings/{id} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		c.JSON(dto.FromError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(dto.BadRequest("invalid booking id: " + c.Param("id")))
		return 0, false
	}
	return id, true
}
