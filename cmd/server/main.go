package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ulvgard/procplan/internal/api"
	"github.com/ulvgard/procplan/internal/config"
	"github.com/ulvgard/procplan/internal/events"
	"github.com/ulvgard/procplan/internal/projector"
	"github.com/ulvgard/procplan/internal/reservation"
	"github.com/ulvgard/procplan/internal/storage"
	"github.com/ulvgard/procplan/internal/storage/inmemory"
	"github.com/ulvgard/procplan/internal/storage/mongodb"
	"github.com/ulvgard/procplan/internal/topology"

	_ "github.com/ulvgard/procplan/docs/swagger" // Import generated swagger docs
)

// @title GPU Reservation API
// @version 1.0
// @description REST API for reserving GPUs on shared compute nodes by the hour

// @contact.name API Support
// @contact.email support@procplan.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @schemes http https
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting reservation server",
		slog.String("service", "server"),
		slog.String("version", "1.0.0"),
	)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Load the node/GPU inventory
	registry, err := topology.LoadRegistryFromFile(cfg.Topology.Path)
	if err != nil {
		slog.Error("Failed to load topology", "path", cfg.Topology.Path, "error", err)
		os.Exit(1)
	}
	snap := registry.Snapshot()
	nodes, gpus := 0, 0
	for node := range snap.Nodes() {
		nodes++
		gpus += node.GPUCount()
	}
	slog.Info("Topology loaded",
		slog.String("path", cfg.Topology.Path),
		slog.Int("nodes", nodes),
		slog.Int("gpus", gpus),
	)

	// Initialize booking storage
	var repo storage.BookingRepository
	switch cfg.Storage.Type {
	case config.StorageMongoDB:
		mongoRepo, err := mongodb.NewBookingRepository(cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer mongoRepo.Close(context.Background())
		repo = mongoRepo
		slog.Info("Using MongoDB storage",
			slog.String("database", cfg.Storage.MongoDatabase),
			slog.String("collection", cfg.Storage.MongoCollection),
		)
	default:
		repo = inmemory.NewBookingRepository()
		slog.Info("Using in-memory storage")
	}

	// Initialize the lifecycle event publisher
	var publisher events.Publisher
	switch cfg.Events.Type {
	case config.EventsRedis:
		redisPublisher, err := events.NewRedisPublisher(events.RedisPublisherConfig{
			RedisURL: cfg.Events.RedisURL,
			Topic:    cfg.Events.Topic,
		}, logger)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisPublisher.Close()
		publisher = redisPublisher
		slog.Info("Publishing lifecycle events to Redis", slog.String("topic", cfg.Events.Topic))
	case config.EventsInMemory:
		memPublisher := events.NewInMemoryPublisher(config.DefaultEventsBufferSize)
		defer memPublisher.Close()
		publisher = memPublisher
	default:
		publisher = events.NopPublisher{}
	}

	service := reservation.NewService(repo, registry, publisher, logger)
	proj := projector.New(registry, repo)
	router := api.NewRouter(service, proj, cfg.Topology.Path, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start HTTP server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down reservation server...")

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Reservation server stopped gracefully")
}
