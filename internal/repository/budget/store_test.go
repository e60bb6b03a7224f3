package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/fantom/internal/db"
)

type expireCall struct {
	key string
	ttl time.Duration
	nx  bool
}

type memStore struct {
	data      map[string][]byte
	incrs     map[string]int64
	expires   []expireCall
	getErr    error
	incrErr   error
	expireErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, incrs: map[string]int64{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	m.incrs[key] += val
	return nil
}

func (m *memStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	m.expires = append(m.expires, expireCall{key: key, ttl: ttl, nx: nx})
	return nil
}

func TestIncrBy_SetsTTLByPeriod(t *testing.T) {
	ms := newMemStore()
	s := New(ms, time.Hour, 2*time.Hour)

	if err := s.IncrBy(context.Background(), "fantom:budget:openai:daily:2026-10-17", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.IncrBy(context.Background(), "fantom:budget:openai:monthly:2026-10", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.expires) != 2 {
		t.Fatalf("expected 2 EXPIRE calls, got %d", len(ms.expires))
	}
	if ms.expires[0].ttl != time.Hour || !ms.expires[0].nx {
		t.Errorf("daily expire = %+v", ms.expires[0])
	}
	if ms.expires[1].ttl != 2*time.Hour || !ms.expires[1].nx {
		t.Errorf("monthly expire = %+v", ms.expires[1])
	}
}

func TestNew_DefaultTTLs(t *testing.T) {
	s := New(newMemStore(), 0, 0)
	if s.dailyTTL != DefaultDailyTTL || s.monthTTL != DefaultMonthlyTTL {
		t.Errorf("unexpected ttls %v / %v", s.dailyTTL, s.monthTTL)
	}
}

func TestIncrBy_Error(t *testing.T) {
	ms := newMemStore()
	ms.incrErr = errors.New("READONLY")
	s := New(ms, 0, 0)

	if err := s.IncrBy(context.Background(), "k:daily:x", 1); err == nil {
		t.Fatal("expected error")
	}
	if len(ms.expires) != 0 {
		t.Error("EXPIRE must not run after a failed INCRBY")
	}
}

func TestIncrBy_ExpireError(t *testing.T) {
	ms := newMemStore()
	ms.expireErr = errors.New("timeout")
	s := New(ms, 0, 0)

	if err := s.IncrBy(context.Background(), "k:daily:x", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestGet(t *testing.T) {
	ms := newMemStore()
	ms.data["k"] = []byte("1234")
	s := New(ms, 0, 0)

	v, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1234 {
		t.Errorf("expected 1234, got %d", v)
	}
}

func TestGet_MissingIsZero(t *testing.T) {
	s := New(newMemStore(), 0, 0)

	v, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
}

func TestGet_ParseError(t *testing.T) {
	ms := newMemStore()
	ms.data["k"] = []byte("not-a-number")
	s := New(ms, 0, 0)

	if _, err := s.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGet_StoreError(t *testing.T) {
	ms := newMemStore()
	ms.getErr = &db.Error{Op: db.OpGet, Err: errors.New("refused")}
	s := New(ms, 0, 0)

	_, err := s.Get(context.Background(), "k")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}
