package db

import (
	"context"
	"time"
)

// Connector opens store connections. Every scan gets its own Conn,
// and the caller owns its lifecycle.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is a read-only store session bound to one logical database.
type Conn interface {
	Pinger
	Scanner
	KVReader
	Close()
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Page is one SCAN batch. Cursor 0 means iteration is complete.
type Page struct {
	Keys   []string
	Cursor uint64
}

// Scanner provides cursor-based key iteration.
type Scanner interface {
	ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) (Page, error)
}

// KVReader provides value lookups.
type KVReader interface {
	// Get returns ErrKeyNotFound for absent keys.
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMulti returns one entry per key; absent keys yield nil.
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
}

// Ping opens a short-lived connection and pings it.
func Ping(ctx context.Context, c Connector) error {
	conn, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Ping(ctx)
}

// WaitForReady polls Ping until the store responds or timeout expires.
func WaitForReady(ctx context.Context, c Connector, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return &Error{Op: OpConnect, Err: ctx.Err()}
		case <-ticker.C:
			if err := Ping(ctx, c); err == nil {
				return nil
			}
		}
	}
}
