package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Topology TopologyConfig
	Storage  StorageConfig
	Events   EventsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TopologyConfig holds topology file configuration
type TopologyConfig struct {
	// Path to the nodes/GPU configuration file (YAML or JSON)
	Path string
}

// StorageConfig holds booking storage configuration
type StorageConfig struct {
	// Type selects the backend: "inmemory" or "mongodb"
	Type string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// EventsConfig holds lifecycle event publisher configuration
type EventsConfig struct {
	// Type selects the transport: "none", "inmemory" or "redis"
	Type string

	RedisURL string
	Topic    string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", DefaultServerPort),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", DefaultWriteTimeout),
		},
		Topology: TopologyConfig{
			Path: getEnv("TOPOLOGY_PATH", DefaultTopologyPath),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", StorageInMemory),
			MongoURI:        getEnv("MONGODB_URI", ""),
			MongoDatabase:   getEnv("MONGODB_DATABASE", DefaultMongoDatabase),
			MongoCollection: getEnv("MONGODB_COLLECTION", DefaultMongoBookingCollection),
		},
		Events: EventsConfig{
			Type:     getEnv("EVENTS_TYPE", EventsNone),
			RedisURL: getEnv("REDIS_URL", ""),
			Topic:    getEnv("EVENTS_TOPIC", DefaultEventsTopic),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Topology.Path == "" {
		return fmt.Errorf("topology path must not be empty")
	}

	switch c.Storage.Type {
	case StorageInMemory:
	case StorageMongoDB:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORAGE_TYPE=%s", StorageMongoDB)
		}
	default:
		return fmt.Errorf("invalid storage type: %q", c.Storage.Type)
	}

	switch c.Events.Type {
	case EventsNone, EventsInMemory:
	case EventsRedis:
		if c.Events.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when EVENTS_TYPE=%s", EventsRedis)
		}
	default:
		return fmt.Errorf("invalid events type: %q", c.Events.Type)
	}

	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
