package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/fantom/internal/db"
)

// --- client.go tests ---

func TestNewConnector_ParsesURL(t *testing.T) {
	c, err := NewConnector(Config{URL: "redis://localhost:6379", Password: "secret", DB: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opt := c.Options()
	if len(opt.InitAddress) != 1 || opt.InitAddress[0] != "localhost:6379" {
		t.Errorf("InitAddress = %v", opt.InitAddress)
	}
	if opt.SelectDB != 5 {
		t.Errorf("SelectDB = %d, want 5", opt.SelectDB)
	}
	if opt.Password != "secret" {
		t.Errorf("Password = %q", opt.Password)
	}
	if !opt.DisableCache {
		t.Error("client-side cache should be disabled")
	}
}

func TestNewConnector_RequiresURL(t *testing.T) {
	if _, err := NewConnector(Config{}); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestNewConnector_BadScheme(t *testing.T) {
	if _, err := NewConnector(Config{URL: "http://localhost:6379"}); err == nil {
		t.Fatal("expected error for non-redis scheme")
	}
}

func TestConnect_NewClientPerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	calls := 0
	c := NewConnectorForTest(func(rueidis.ClientOption) (rueidis.Client, error) {
		calls++
		return mock.NewClient(ctrl), nil
	})

	a, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("newClient called %d times, want 2", calls)
	}
	if a == b {
		t.Error("connections must not be shared")
	}
}

func TestConnect_Error(t *testing.T) {
	c := NewConnectorForTest(func(rueidis.ClientOption) (rueidis.Client, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	_, err := c.Connect(context.Background())
	if !isDBError(err, db.OpConnect) {
		t.Fatalf("expected CONNECT db.Error, got %v", err)
	}
}

func TestConnect_CanceledContext(t *testing.T) {
	c := NewConnectorForTest(func(rueidis.ClientOption) (rueidis.Client, error) {
		t.Fatal("newClient must not be called")
		return nil, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); !isDBError(err, db.OpPing) {
		t.Fatalf("expected PING db.Error, got %v", err)
	}
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Close().Times(1)

	NewStoreForTest(c).Close()
}

// --- scan.go tests ---

func TestScanPage_Command(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SCAN", "17", "MATCH", "doc:*", "COUNT", "100")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(42),
			mock.RedisArray(mock.RedisString("doc:1"), mock.RedisString("doc:2")),
		)))

	s := NewStoreForTest(c)
	page, err := s.ScanPage(context.Background(), 17, "doc:*", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Cursor != 42 {
		t.Errorf("Cursor = %d, want 42", page.Cursor)
	}
	if len(page.Keys) != 2 || page.Keys[0] != "doc:1" || page.Keys[1] != "doc:2" {
		t.Errorf("Keys = %v", page.Keys)
	}
}

func TestScanPage_Done(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(),
		)))

	s := NewStoreForTest(c)
	page, err := s.ScanPage(context.Background(), 0, "*", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Cursor != 0 || len(page.Keys) != 0 {
		t.Errorf("page = %+v", page)
	}
}

func TestScanPage_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.ErrorResult(errors.New("connection reset")))

	s := NewStoreForTest(c)
	if _, err := s.ScanPage(context.Background(), 0, "*", 10); !isDBError(err, db.OpScan) {
		t.Fatalf("expected SCAN db.Error, got %v", err)
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisBlobString(`{"a":1}`)))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("should not be ErrKeyNotFound for network errors")
	}
	if !isDBError(err, db.OpGet) {
		t.Errorf("expected GET db.Error, got %v", err)
	}
}

func TestGetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisBlobString(`"a"`)),
			mock.Result(mock.RedisNil()),
			mock.Result(mock.RedisBlobString(`"c"`)),
		})

	s := NewStoreForTest(c)
	values, err := s.GetMulti(context.Background(), []string{"k1", "k2", "k3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if string(values[0]) != `"a"` || values[1] != nil || string(values[2]) != `"c"` {
		t.Errorf("unexpected values: %q", values)
	}
}

func TestGetMulti_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisBlobString(`"a"`)),
			mock.ErrorResult(errors.New("broken pipe")),
		})

	s := NewStoreForTest(c)
	if _, err := s.GetMulti(context.Background(), []string{"k1", "k2"}); !isDBError(err, db.OpGet) {
		t.Fatalf("expected GET db.Error, got %v", err)
	}
}

func TestGetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	values, err := s.GetMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values != nil {
		t.Errorf("expected nil, got %v", values)
	}
}

// --- helpers ---

func isDBError(err error, op string) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr) && dbErr.Op == op
}
