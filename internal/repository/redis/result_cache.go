package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultResultTTL = 24 * time.Hour

// ResultCache remembers which stored run answered a request fingerprint.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &ResultCache{
		client: client,
		ttl:    ttl,
	}
}

func resultKey(fingerprint string) string {
	// key format: "simulation:fingerprint:{fingerprint}"
	return fmt.Sprintf("simulation:fingerprint:%s", fingerprint)
}

func (c *ResultCache) Get(ctx context.Context, fingerprint string) (uuid.UUID, bool, error) {
	val, err := c.client.Get(ctx, resultKey(fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to get cached run from Redis: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to parse cached run id: %w", err)
	}
	return id, true, nil
}

func (c *ResultCache) Set(ctx context.Context, fingerprint string, id uuid.UUID) error {
	if err := c.client.Set(ctx, resultKey(fingerprint), id.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cached run in Redis: %w", err)
	}
	return nil
}
