package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/store"
	"confsrv/internal/services/settings/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	data [][]any
	i    int
}

func (f *fakeRows) Next() bool { f.i++; return f.i <= len(f.data) }
func (f *fakeRows) Scan(dst ...any) error {
	row := f.data[f.i-1]
	*dst[0].(*string) = row[0].(string)
	*dst[1].(*int64) = row[1].(int64)
	*dst[2].(**string) = row[2].(*string)
	return nil
}
func (f *fakeRows) Err() error        { return nil }
func (f *fakeRows) Close()            {}
func (f *fakeRows) Columns() []string { return []string{"name", "value", "data"} }

type fakeQ struct {
	rows     *fakeRows
	queryErr error
	execErr  error
	affected string
	sql      string
	args     []any
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag(f.affected), f.execErr
}
func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}
func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

func TestAll(t *testing.T) {
	t.Parallel()
	d := "x"
	q := &fakeQ{rows: &fakeRows{data: [][]any{{"au_seerev", int64(1), (*string)(nil)}, {"msg", int64(0), &d}}}}
	got, err := NewPG().Bind(q).All(context.Background())
	if err != nil || len(got) != 2 || got[0].Name != "au_seerev" || got[1].Data == nil || *got[1].Data != "x" {
		t.Fatalf("All = %+v %v", got, err)
	}

	q = &fakeQ{queryErr: &pgconn.PgError{Code: "57P01"}}
	if _, err := NewPG().Bind(q).All(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpsertAndDelete(t *testing.T) {
	t.Parallel()
	q := &fakeQ{affected: "INSERT 0 1"}
	r := NewPG().Bind(q)
	if err := r.Upsert(context.Background(), domain.Setting{Name: "rev_open", Value: 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.sql, "on conflict (name)") || q.args[0] != "rev_open" || q.args[1] != int64(1) {
		t.Fatalf("upsert sql=%q args=%v", q.sql, q.args)
	}

	q.affected = "DELETE 1"
	if ok, err := r.Delete(context.Background(), "rev_open"); !ok || err != nil {
		t.Fatalf("Delete = %v %v", ok, err)
	}
	q.affected = "DELETE 0"
	if ok, _ := r.Delete(context.Background(), "rev_open"); ok {
		t.Fatal("missing row reported deleted")
	}

	q.execErr = errors.New("conn reset")
	if err := r.Upsert(context.Background(), domain.Setting{Name: "x"}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
}
