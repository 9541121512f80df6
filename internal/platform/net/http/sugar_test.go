package http

import (
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "confsrv/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

type pageQuery struct {
	Position string `query:"position"`
	Limit    int    `query:"limit" validate:"gte=0,lte=50"`
}

type putBody struct {
	Value int64 `json:"value" validate:"gte=0"`
}

func newRouter() (Router, *chi.Mux) {
	m := chi.NewRouter()
	return AdaptChi(m), m
}

func TestSugar_Routes(t *testing.T) {
	r, m := newRouter()

	Get(r, "/plain", func(*stdhttp.Request) (any, error) { return "plain", nil })
	GetQuery(r, "/feed", func(_ *stdhttp.Request, q pageQuery) (any, error) {
		return q, nil
	})
	PutJSON(r, "/things/{name}", func(req *stdhttp.Request, b putBody) (any, error) {
		return map[string]any{"name": chi.URLParam(req, "name"), "value": b.Value}, nil
	})
	PostJSON(r, "/made", func(*stdhttp.Request, putBody) (any, error) { return Created("ok"), nil })
	Get(r, "/broken", func(*stdhttp.Request) (any, error) { return nil, errors.New("nope") })

	cases := []struct {
		method, path, body string
		status             int
		contains           string
	}{
		{stdhttp.MethodGet, "/plain", "", 200, `"data":"plain"`},
		{stdhttp.MethodGet, "/feed?position=1.2.3&limit=5", "", 200, `"Position":"1.2.3"`},
		{stdhttp.MethodGet, "/feed?limit=500", "", 400, `"field":"limit"`},
		{stdhttp.MethodPut, "/things/au_seerev", `{"value":2}`, 200, `"name":"au_seerev"`},
		{stdhttp.MethodPut, "/things/x", `{"value":-1}`, 400, `"code":8`},
		{stdhttp.MethodPost, "/made", `{"value":1}`, 201, `"data":"ok"`},
		{stdhttp.MethodGet, "/broken", "", 500, `"error":"nope"`},
	}
	for _, tc := range cases {
		t.Run(tc.method+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.status {
				t.Fatalf("status = %d want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("body %s lacks %s", rec.Body.String(), tc.contains)
			}
		})
	}
	if perr.ErrorCodeValidation != 8 {
		t.Fatalf("validation code moved; update expectations")
	}
}

func TestAdapter_GroupAndRoute(t *testing.T) {
	r, m := newRouter()
	var order []string
	r.Route("/api", func(api Router) {
		api.Use(func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
				order = append(order, "mw")
				next.ServeHTTP(w, req)
			})
		})
		api.Group(func(g Router) {
			g.Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(204) })
		})
	})
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/api/ping", nil))
	if rec.Code != 204 || len(order) != 1 {
		t.Fatalf("code=%d order=%v", rec.Code, order)
	}
	if r.Mux() == nil {
		t.Fatal("Mux is nil")
	}
}

func TestMountProfiler(t *testing.T) {
	r, m := newRouter()
	MountProfiler(r, "/debug", false)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/debug/pprof/", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("disabled profiler served %d", rec.Code)
	}

	r, m = newRouter()
	MountProfiler(r, "/debug", true)
	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/debug/pprof/", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("profiler index = %d", rec.Code)
	}
}
