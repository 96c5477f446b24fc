// Package cache holds a Redis-backed cache of text embeddings. Embedding a
// given text is deterministic for a fixed model, so vectors can be reused
// across requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}

// Get a cached embedding vector; found is false on a miss.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	val, err := c.client.Get(ctx, buildKey(text)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get embedding from cache: %w", err)
	}

	var vec []float32
	if err := json.Unmarshal([]byte(val), &vec); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}

	return vec, true, nil
}

// Store an embedding vector in cache
func (c *Cache) Set(ctx context.Context, text string, vec []float32) error {
	val, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(text), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set embedding in cache: %w", err)
	}

	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
