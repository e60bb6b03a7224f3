// Package goredis implements db.Connector on top of go-redis.
package goredis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kailas-cloud/fantom/internal/db"
)

// Compile-time checks.
var (
	_ db.Connector = (*Connector)(nil)
	_ db.Conn      = (*Store)(nil)
)

// Config holds connection parameters.
type Config struct {
	URL         string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Connector opens a dedicated go-redis client per Connect call.
type Connector struct {
	opts *redis.Options
}

// NewConnector parses cfg.URL and applies overrides. No connection is opened.
func NewConnector(cfg Config) (*Connector, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	// Failures propagate to the caller; the scan never retries.
	opts.MaxRetries = -1
	return &Connector{opts: opts}, nil
}

// Options returns a copy of the resolved client options.
func (c *Connector) Options() redis.Options { return *c.opts }

// Connect creates a client and verifies it with PING, since go-redis dials lazily.
func (c *Connector) Connect(ctx context.Context) (db.Conn, error) {
	opts := *c.opts
	client := redis.NewClient(&opts)
	s := &Store{client: client}
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return s, nil
}

// Store is a single go-redis connection.
type Store struct {
	client *redis.Client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the client's pool.
func (s *Store) Close() {
	_ = s.client.Close()
}

// ScanPage runs one SCAN step from cursor.
func (s *Store) ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) (db.Page, error) {
	keys, next, err := s.client.Scan(ctx, cursor, pattern, count).Result()
	if err != nil {
		return db.Page{}, &db.Error{Op: db.OpScan, Err: err}
	}
	return db.Page{Keys: keys, Cursor: next}, nil
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// GetMulti pipelines one GET per key. Absent keys yield a nil entry.
func (s *Store) GetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringCmd, len(keys))
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = p.Get(ctx, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}

	out := make([][]byte, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, &db.Error{Op: db.OpGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		if data == nil {
			data = []byte{}
		}
		out[i] = data
	}
	return out, nil
}
