package redis

import (
	"context"

	"github.com/kailas-cloud/fantom/internal/db"
)

// ScanPage runs one SCAN step from cursor.
func (s *Store) ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) (db.Page, error) {
	cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(count).Build()
	res, err := s.do(ctx, cmd).AsScanEntry()
	if err != nil {
		return db.Page{}, &db.Error{Op: db.OpScan, Err: err}
	}
	return db.Page{Keys: res.Elements, Cursor: res.Cursor}, nil
}
