// Package cache publishes board snapshots to Redis so companion displays
// (or a web view) can mirror the appliance without hitting Darwin
// themselves. It is optional: with no Redis address configured the pipeline
// runs without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AMMiKSTUDIOS/trakkr/pkg/models"
)

const (
	// SnapshotKey holds the latest board JSON.
	SnapshotKey = "trakkr:board"
	// SnapshotChannel receives each snapshot as a pub/sub event.
	SnapshotChannel = "trakkr:board:updates"
	// snapshotTTL keeps a dead appliance from serving stale boards forever.
	snapshotTTL = 5 * time.Minute
)

// BoardSnapshot is the published document: one fetch cycle's worth of rows
// and notices.
type BoardSnapshot struct {
	Station     string                 `json:"station"`
	Mode        string                 `json:"mode"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Services    []models.ServiceRecord `json:"services"`
	Notices     []models.NoticeMessage `json:"notices"`
}

// Publisher abstracts snapshot publishing so the fetch pipeline can run
// without Redis and tests can capture what would be published.
type Publisher interface {
	PublishBoard(ctx context.Context, snap BoardSnapshot) error
}

type RedisClient struct {
	Client *redis.Client
	logger *slog.Logger
}

// Options builds the default client options for a bare address.
func Options(addr string) *redis.Options {
	return &redis.Options{Addr: addr}
}

func NewRedisClient(logger *slog.Logger, options *redis.Options) (*RedisClient, error) {
	rc := &RedisClient{
		Client: redis.NewClient(options),
		logger: logger,
	}
	logger.Info("connecting to redis...")

	if _, err := rc.Client.Ping(context.Background()).Result(); err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("successfully connected to Redis")
	return rc, nil
}

// PublishBoard caches the snapshot under SnapshotKey and announces it on
// SnapshotChannel. A failure is logged by the caller and never fails the
// fetch cycle.
func (rc *RedisClient) PublishBoard(ctx context.Context, snap BoardSnapshot) error {
	jsonValue, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
	}

	if err := rc.Client.Set(ctx, SnapshotKey, jsonValue, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	if err := rc.Client.Publish(ctx, SnapshotChannel, jsonValue).Err(); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}
