package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"confsrv/internal/platform/config"
	perr "confsrv/internal/platform/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakeQ is an in-memory RowQuerier that replays canned rows
type fakeQ struct {
	rows     [][]any
	affected int64
	err      error
	pingErr  error
	closed   bool
}

type fakeTag int64

func (t fakeTag) String() string      { return "UPDATE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.data)
}
func (r *fakeRows) Scan(dst ...any) error {
	row := r.data[r.i-1]
	for j := range dst {
		switch p := dst[j].(type) {
		case *int64:
			*p = row[j].(int64)
		case *string:
			*p = row[j].(string)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}
func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

func (f *fakeQ) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag(f.affected), f.err
}
func (f *fakeQ) Query(context.Context, string, ...any) (Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{data: f.rows}, nil
}
func (f *fakeQ) QueryRow(ctx context.Context, sql string, args ...any) Row {
	rs, _ := f.Query(ctx, sql, args...)
	r := rs.(*fakeRows)
	r.Next()
	return r
}
func (f *fakeQ) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(f) }
func (f *fakeQ) Ping(context.Context) error                             { return f.pingErr }
func (f *fakeQ) Close() error {
	f.closed = true
	return nil
}

func scanPair(r Row) (string, error) {
	var name string
	var v int64
	err := r.Scan(&name, &v)
	return name, err
}

func TestHelpers(t *testing.T) {
	ctx := context.Background()
	q := &fakeQ{rows: [][]any{{"au_seerev", int64(1)}, {"rev_open", int64(2)}}}

	names, err := Many(ctx, q, scanPair, "select name, value from Settings")
	if err != nil || len(names) != 2 || names[1] != "rev_open" {
		t.Fatalf("Many = %v, %v", names, err)
	}
	if _, err := One(ctx, q, scanPair, "select"); err == nil {
		t.Fatalf("One with two rows must fail")
	}
	if _, err := One(ctx, &fakeQ{}, scanPair, "select"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("One with no rows = %v", err)
	}
	n, err := Scalar[int64](ctx, &fakeQ{rows: [][]any{{int64(42)}}}, "select count(*)")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
	if err := ExecOne(ctx, &fakeQ{affected: 1}, "update"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}
	if err := ExecOne(ctx, &fakeQ{affected: 0}, "update"); err == nil {
		t.Fatalf("ExecOne with 0 rows must fail")
	}
}

func TestGuardAndClose(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	pgFake := &fakeQ{pingErr: errors.New("conn refused")}

	s := &Store{PG: pgFake, RDS: rdb}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: conn refused") {
		t.Fatalf("Guard = %v", err)
	}

	pgFake.pingErr = nil
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard healthy = %v", err)
	}

	mr.Close()
	if err := s.Guard(context.Background()); err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("Guard with redis down = %v", err)
	}

	_ = s.Close(context.Background())
	if !pgFake.closed {
		t.Fatalf("Close must close pg")
	}
	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatalf("nil store guard must fail")
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("disabled backends must stay nil")
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), Config{RDS: RedisConfig{Enabled: true, URL: "redis://" + mr.Addr() + "/0"}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	if err := s.RDS.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("miniredis value = %q", got)
	}
}

func TestOpen_RedisBadURL(t *testing.T) {
	_, err := Open(context.Background(), Config{RDS: RedisConfig{Enabled: true, URL: "http://nope"}})
	if err == nil {
		t.Fatalf("expected url error")
	}
}

func TestCHAdapter_RejectsShape(t *testing.T) {
	a := newCHAdapter(nil)
	if err := a.Insert(context.Background(), "action_log", []string{"x"}); err == nil {
		t.Fatalf("wrong insert shape must fail")
	}
}

func TestConfigFrom(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://localhost/confsrv")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "3")
	t.Setenv("SERVICE_REDIS_URL", "redis://localhost:6379/0")

	c := ConfigFrom(config.New(), "confsrv", "api")
	if !c.PG.Enabled || c.PG.MaxConns != 3 || c.PG.URL != "postgres://localhost/confsrv" {
		t.Fatalf("pg = %+v", c.PG)
	}
	if c.CH.Enabled {
		t.Fatalf("clickhouse should stay off without a url")
	}
	if !c.RDS.Enabled || c.CH.Role != "confsrv" || c.CH.Tag != "api" {
		t.Fatalf("config = %+v", c)
	}
}
