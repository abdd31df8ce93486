package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/course-demand/internal/models"
)

// RedisNotifier publishes events on Redis pub/sub.
// Each session gets its own channel: "<prefix>:session:<session_id>".
type RedisNotifier struct {
	BaseNotifier
	client *redis.Client
	prefix string
}

// RedisOptions holds Redis connection settings
type RedisOptions struct {
	Address       string
	Password      string
	DB            int
	ChannelPrefix string
}

// NewRedisNotifier connects to Redis and verifies the connection
func NewRedisNotifier(ctx context.Context, opts RedisOptions) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := opts.ChannelPrefix
	if prefix == "" {
		prefix = "course-demand"
	}

	return &RedisNotifier{
		BaseNotifier: BaseNotifier{notifierType: "redis"},
		client:       client,
		prefix:       prefix,
	}, nil
}

// Channel returns the pub/sub channel for a session
func (n *RedisNotifier) Channel(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", n.prefix, sessionID)
}

// Notify publishes the event as JSON
func (n *RedisNotifier) Notify(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := n.Channel(event.SessionID)
	receivers, err := n.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("event published", "channel", channel, "type", event.Type, "receivers", receivers)
	return nil
}

// Subscribe listens on a session channel. The caller closes the returned PubSub.
func (n *RedisNotifier) Subscribe(ctx context.Context, sessionID string) *redis.PubSub {
	return n.client.Subscribe(ctx, n.Channel(sessionID))
}

// HealthCheck verifies Redis connectivity
func (n *RedisNotifier) HealthCheck(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
