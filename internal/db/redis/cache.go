package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fantom/internal/db"
)

// Cache is a long-lived client for the embedding cache. It lives in its own
// logical database so scanned records are never written.
type Cache struct {
	client rueidis.Client
	ttl    time.Duration
}

// NewCache dials the cache database. ttl <= 0 stores entries without expiry.
func NewCache(cfg Config, ttl time.Duration) (*Cache, error) {
	c, err := NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(c.Options())
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns db.ErrKeyNotFound for absent keys.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := c.client.B().Get().Key(key).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores value under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	var cmd rueidis.Completed
	if c.ttl > 0 {
		cmd = c.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).
			ExSeconds(int64(c.ttl / time.Second)).Build()
	} else {
		cmd = c.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	}
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}

// IncrBy atomically increments a counter key.
func (c *Cache) IncrBy(ctx context.Context, key string, val int64) error {
	cmd := c.client.B().Incrby().Key(key).Increment(val).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpIncrBy, Err: err}
	}
	return nil
}

// Expire sets a TTL on key. With nx the TTL is only set when the key has none.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	var cmd rueidis.Completed
	if nx {
		cmd = c.client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build()
	} else {
		cmd = c.client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()
	}
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (c *Cache) Close() {
	c.client.Close()
}
