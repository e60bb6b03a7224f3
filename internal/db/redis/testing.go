package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}

// NewConnectorForTest creates a Connector whose clients come from newClient (test-only).
func NewConnectorForTest(newClient func(rueidis.ClientOption) (rueidis.Client, error)) *Connector {
	return &Connector{newClient: newClient}
}

// NewCacheForTest creates a Cache with the provided rueidis client (test-only).
func NewCacheForTest(c rueidis.Client, ttl time.Duration) *Cache {
	return &Cache{client: c, ttl: ttl}
}
