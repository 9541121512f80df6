package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/module"
	"confsrv/internal/modkit/swaggerkit"
	"confsrv/internal/platform/config"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/store"
	"confsrv/internal/platform/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// fakeDB answers by table name; enough SQL to drive every module through the router
type fakeDB struct {
	mu       sync.Mutex
	contacts map[int64][]any
	settings [][]any
	execs    []string
}

func (f *fakeDB) rowsFor(sql string, args []any) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(sql, "from contact_info where"):
		if c, ok := f.contacts[args[0].(int64)]; ok {
			return [][]any{c}
		}
		return nil
	case strings.Contains(sql, "from settings"):
		return f.settings
	}
	// feed sources: nothing happened yet
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	f.mu.Lock()
	f.execs = append(f.execs, sql)
	f.mu.Unlock()
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	return &fakeRows{data: f.rowsFor(sql, args)}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	return &fakeRows{data: f.rowsFor(sql, args), single: true}
}

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

func (f *fakeDB) wrote(table string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.execs {
		if strings.Contains(s, "insert into "+table) {
			return true
		}
	}
	return false
}

type fakeRows struct {
	data   [][]any
	i      int
	single bool
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.data) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close() {}
func (r *fakeRows) Columns() []string { return nil }

func (r *fakeRows) Scan(dest ...any) error {
	if r.single {
		if len(r.data) == 0 {
			return pgx.ErrNoRows
		}
		r.i = 1
	}
	row := r.data[r.i-1]
	for i, d := range dest {
		v := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			v.Set(reflect.Zero(v.Type()))
			continue
		}
		v.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func newAPI(t *testing.T) (http.Handler, *fakeDB, *miniredis.Miniredis) {
	t.Helper()
	testkit.Serial(t)
	module.Reset()
	swaggerkit.Reset()
	t.Cleanup(module.Reset)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := &fakeDB{
		contacts: map[int64][]any{
			1: {int64(1), "Carla", "Chair", "chair@example.org", int32(4)},
			2: {int64(2), "Pat", "Member", "pc@example.org", int32(1)},
		},
		settings: [][]any{{"au_seerev", int64(2), nil}},
	}

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	mods := Mount(r, Options{
		Service:       "confsrv-api",
		Config:        config.New(),
		Store:         &store.Store{PG: db, RDS: rdb},
		Auth:          httpkit.NewPortFunc(httpkit.StaticTokens(map[string]string{"chair-token": "1", "pc-token": "2"})),
		EnableSwagger: true,
	})
	if len(mods) != 5 {
		t.Fatalf("mounted %d modules, want 5", len(mods))
	}
	return mux, db, mr
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestMountPublishesModules(t *testing.T) {
	newAPI(t)
	for _, name := range []string{"contacts", "actionlog", "settings", "activity"} {
		if _, ok := module.PortsAs[any](name); !ok {
			t.Fatalf("module %q not published", name)
		}
	}
}

func TestHealthAndDocs(t *testing.T) {
	h, _, _ := newAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/meta/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d: %s", rec.Code, rec.Body.String())
	}
	rec, _ = do(t, h, http.MethodGet, "/api/docs/doc.json", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("doc.json = %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), "/settings/{name}")
	testkit.MustContain(t, rec.Body.String(), "/activity")
}

func TestActivityRequiresToken(t *testing.T) {
	h, _, _ := newAPI(t)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/activity", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", rec.Code)
	}
	rec, _ = do(t, h, http.MethodGet, "/api/v1/activity", "nope", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d, want 401", rec.Code)
	}
}

func TestActivityEmptyFeed(t *testing.T) {
	h, db, _ := newAPI(t)

	rec, body := do(t, h, http.MethodGet, "/api/v1/activity?limit=10", "chair-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed = %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["exhausted"] != true {
		t.Fatalf("empty sources should exhaust the feed: %v", data)
	}

	var readOnly bool
	for _, s := range db.execs {
		if strings.Contains(s, "READ ONLY") {
			readOnly = true
		}
	}
	if !readOnly {
		t.Fatalf("feed transactions should be read only; execs %v", db.execs)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/activity?limit=1000", "chair-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over max limit = %d, want 400", rec.Code)
	}
}

func TestSettingsReadAndSave(t *testing.T) {
	h, db, mr := newAPI(t)

	rec, body := do(t, h, http.MethodGet, "/api/v1/settings/au_seerev", "pc-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["value"] != float64(2) {
		t.Fatalf("value = %v", data["value"])
	}
	if !mr.Exists("confsrv:default:settings") {
		t.Fatalf("snapshot should be cached after a read")
	}

	rec, _ = do(t, h, http.MethodPut, "/api/v1/settings/rev_blind", "pc-token", `{"value":1}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pc save = %d, want 403", rec.Code)
	}

	rec, _ = do(t, h, http.MethodPut, "/api/v1/settings/rev_blind", "chair-token", `{"value":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chair save = %d: %s", rec.Code, rec.Body.String())
	}
	if !db.wrote("settings") || !db.wrote("action_log") {
		t.Fatalf("save should write the setting and an action; execs %v", db.execs)
	}
	if mr.Exists("confsrv:default:settings") {
		t.Fatalf("save should drop the cached snapshot")
	}

	rec, _ = do(t, h, http.MethodPut, "/api/v1/settings/Bad-Name", "chair-token", `{"value":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad name = %d, want 400", rec.Code)
	}
}

func TestStackAndAuthFromEnv(t *testing.T) {
	t.Setenv("CONFSRV_API_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CONFSRV_API_THROTTLE", "50")
	t.Setenv("CONFSRV_API_TOKENS", "tok:7")

	o := StackFrom(config.New())
	if len(o.CORS.AllowedOrigins) != 2 || o.Throttle != 50 {
		t.Fatalf("stack = %+v", o)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	id, err := AuthFrom(config.New()).Parse(req)
	if err != nil || id != 7 {
		t.Fatalf("Parse = %d, %v", id, err)
	}
}
