package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes events onto a Redis list so external consumers can
// drain them with BRPOP. The key layout follows the queue convention
// "events:{topic}".
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
	topic  string

	totalPublished atomic.Int64
	totalErrors    atomic.Int64
	closed         atomic.Bool
}

// RedisPublisherConfig configures the Redis transport.
type RedisPublisherConfig struct {
	RedisURL string
	Topic    string
	PoolSize int
}

// NewRedisPublisher connects to Redis and returns a publisher.
func NewRedisPublisher(config RedisPublisherConfig, logger *slog.Logger) (*RedisPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Topic == "" {
		config.Topic = "bookings"
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = config.PoolSize

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	p := &RedisPublisher{
		client: client,
		logger: logger.With("component", "redis_events"),
		topic:  config.Topic,
	}

	p.logger.Info("Redis event publisher initialized",
		"topic", config.Topic,
		"queue_key", p.queueKey(),
	)
	return p, nil
}

func (p *RedisPublisher) queueKey() string {
	return fmt.Sprintf("events:%s", p.topic)
}

// Publish serializes the event and pushes it onto the list.
func (p *RedisPublisher) Publish(ctx context.Context, event *Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.LPush(ctx, p.queueKey(), data).Err(); err != nil {
		p.totalErrors.Add(1)
		return fmt.Errorf("failed to push event to Redis: %w", err)
	}

	p.totalPublished.Add(1)
	p.logger.Debug("Event published",
		"event_id", event.ID,
		"type", event.Type,
		"booking_id", event.BookingID,
	)
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.client.Close()
}
