package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ulvgard/procplan/internal/api/handlers"
	"github.com/ulvgard/procplan/internal/api/middleware"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
)

// Router manages API routing and handlers
type Router struct {
	engine              *gin.Engine
	nodeHandler         *handlers.NodeHandler
	bookingHandler      *handlers.BookingHandler
	availabilityHandler *handlers.AvailabilityHandler
	topologyHandler     *handlers.TopologyHandler
}

// NewRouter creates a new API router with all handlers initialized.
// topologyPath is the file the reload endpoint re-reads.
func NewRouter(service *reservation.Service, proj *projector.Projector, topologyPath string, logger *slog.Logger) *Router {
	router := &Router{
		engine:              gin.New(),
		nodeHandler:         handlers.NewNodeHandler(service.Registry()),
		bookingHandler:      handlers.NewBookingHandler(service),
		availabilityHandler: handlers.NewAvailabilityHandler(service, proj),
		topologyHandler:     handlers.NewTopologyHandler(service.Registry(), topologyPath, logger),
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures global middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.LoggingMiddleware())
	r.engine.Use(middleware.ErrorHandlerMiddleware())
	r.engine.Use(gin.Recovery())
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	// Swagger UI - serves OpenAPI documentation at /swagger/index.html
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.engine.Group("/api/v1")
	{
		nodes := v1.Group("/nodes")
		{
			nodes.GET("", r.nodeHandler.ListNodes)
			nodes.GET("/:id", r.nodeHandler.GetNode)
		}

		v1.GET("/availability", r.availabilityHandler.GetAvailability)
		v1.GET("/grid", r.availabilityHandler.GetGrid)

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", r.bookingHandler.CreateBooking)
			bookings.GET("/:id", r.bookingHandler.GetBooking)
			bookings.POST("/:id/complete", r.bookingHandler.CompleteBooking)
			bookings.DELETE("/:id", r.bookingHandler.CancelBooking)
		}

		v1.POST("/topology/reload", r.topologyHandler.ReloadTopology)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
