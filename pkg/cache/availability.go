// Package cache holds the Redis-backed availability cache. Entries are
// short-lived and advisory; a Redis outage degrades to direct repository
// reads, never to an error on the booking path.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cureconnect/cureconnect/internal/config"
)

type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	opTTL  time.Duration
	log    *zap.Logger
}

// New connects to Redis and verifies the connection. Returns an error only
// on misconfiguration; callers may run without a cache by passing an empty
// Addr and skipping construction.
func New(cfg config.RedisConfig, log *zap.Logger) (*AvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &AvailabilityCache{
		client: client,
		ttl:    cfg.AvailabilityTTL,
		opTTL:  cfg.OperationTimeout,
		log:    log,
	}, nil
}

func (c *AvailabilityCache) GetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opTTL)
	defer cancel()

	raw, err := c.client.Get(ctx, key(doctorID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("availability cache entry corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, key(doctorID, date)).Err()
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) SetSlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slots []string) {
	ctx, cancel := context.WithTimeout(ctx, c.opTTL)
	defer cancel()

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(doctorID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	ctx, cancel := context.WithTimeout(ctx, c.opTTL)
	defer cancel()

	if err := c.client.Del(ctx, key(doctorID, date)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed", zap.Error(err))
	}
}

// InvalidateDoctor drops every cached date for the doctor. Used when the
// doctor's availability subsets change, since those affect all dates at once.
func (c *AvailabilityCache) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, c.opTTL)
	defer cancel()

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("availability:%s:*", doctorID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("availability cache scan failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}

func key(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s", doctorID, date.Format("2006-01-02"))
}
