package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fantom/internal/db"
)

// Compile-time checks.
var (
	_ db.Connector = (*Connector)(nil)
	_ db.Conn      = (*Store)(nil)
)

// Config holds connection parameters for a Redis store.
type Config struct {
	URL      string // redis://[user:pass@]host:port[/db]
	Username string
	Password string
	DB       int
}

// Connector dials a dedicated rueidis client per Connect call.
type Connector struct {
	opt       rueidis.ClientOption
	newClient func(rueidis.ClientOption) (rueidis.Client, error)
}

// NewConnector validates cfg and prepares client options. No connection is opened.
func NewConnector(cfg Config) (*Connector, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	opt, err := rueidis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if cfg.Username != "" {
		opt.Username = cfg.Username
	}
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.SelectDB = cfg.DB
	opt.DisableCache = true

	return &Connector{opt: opt, newClient: rueidis.NewClient}, nil
}

// Options returns the resolved client options.
func (c *Connector) Options() rueidis.ClientOption { return c.opt }

// Connect opens a new client. The caller must Close the returned Conn.
func (c *Connector) Connect(ctx context.Context) (db.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	client, err := c.newClient(c.opt)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Store{client: client}, nil
}

// Store is a single rueidis-backed connection.
type Store struct {
	client rueidis.Client
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
