package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const snapshotPrefix = "scenario:"

// RedisStorage implements the Storage interface using Redis for uploaded
// scenario snapshots and the filesystem for bundled scenario files.
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
	ttl     time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. Snapshots expire
// after ttl; zero keeps them forever.
func NewRedisStorage(redisURL, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  redis.NewClient(opt),
		logger:  logger,
		dataDir: dataDir,
		ttl:     ttl,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		err := r.Ping(ctx)
		if err == nil {
			r.logger.Info("Redis connection established")
			return nil
		}
		r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Snapshot operations (Redis-backed)

func (r *RedisStorage) SaveScenario(ctx context.Context, id uuid.UUID, s *scenario.Scenario) error {
	if s == nil {
		return errors.New("scenario cannot be nil")
	}
	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal scenario", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := r.client.Set(ctx, snapshotPrefix+id.String(), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save scenario", "uuid", id, "error", err)
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadScenario(ctx context.Context, id uuid.UUID) (*scenario.Scenario, error) {
	data, err := r.client.Get(ctx, snapshotPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Scenario not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load scenario", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}

	var s scenario.Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Error("Failed to unmarshal scenario", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	return &s, nil
}

func (r *RedisStorage) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotPrefix+id.String()).Err(); err != nil {
		r.logger.Error("Failed to delete scenario", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	return nil
}
