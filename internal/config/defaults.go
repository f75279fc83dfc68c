package config

import "time"

// Storage backend selectors
const (
	StorageInMemory = "inmemory"
	StorageMongoDB  = "mongodb"
)

// Event transport selectors
const (
	EventsNone     = "none"
	EventsInMemory = "inmemory"
	EventsRedis    = "redis"
)

// Default configuration values
const (
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTopologyPath = "config/topology.yaml"

	DefaultMongoDatabase          = "procplan"
	DefaultMongoBookingCollection = "bookings"

	DefaultEventsTopic      = "bookings"
	DefaultEventsBufferSize = 256
	DefaultNotifierTimeout  = 5 * time.Second
)
