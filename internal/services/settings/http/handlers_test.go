package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"confsrv/internal/modkit/httpkit"
	perr "confsrv/internal/platform/errors"
	pnet "confsrv/internal/platform/net"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/testkit"
	aldomain "confsrv/internal/services/actionlog/domain"
	"confsrv/internal/services/settings/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	who  aldomain.Actor
	name string
	in   domain.SaveInput
}

func (f *fakeSvc) Snapshot(context.Context) (domain.Snapshot, error) { return domain.Snapshot{}, nil }

func (f *fakeSvc) Get(_ context.Context, contactID int64, name string) (domain.Setting, error) {
	if name == "missing" {
		return domain.Setting{}, perr.NotFoundf("setting %s not found", name)
	}
	return domain.Setting{Name: name, Value: contactID}, nil
}

func (f *fakeSvc) Save(_ context.Context, who aldomain.Actor, name string, in domain.SaveInput) (*domain.Setting, error) {
	f.who, f.name, f.in = who, name, in
	if in.Value == nil && in.Data == nil {
		return nil, nil
	}
	return &domain.Setting{Name: name, Value: *in.Value}, nil
}

func newRouter(svc domain.ServicePort) *chi.Mux {
	m := chi.NewRouter()
	port := httpkit.NewPortFunc(httpkit.StaticTokens(map[string]string{"chair": "1"}))
	r := phttp.AdaptChi(m)
	r.Route("/settings", func(sub httpkit.Router) {
		httpkit.Protected(sub, port, func(pr httpkit.Router) { Register(pr, "/settings", svc) })
	})
	return m
}

func do(t *testing.T, m stdhttp.Handler, method, path, body, token string) (*httptest.ResponseRecorder, pnet.Wire) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.7:4000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)
	var w pnet.Wire
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, w
}

func TestSettingsRoutes(t *testing.T) {
	testkit.Serial(t)
	svc := &fakeSvc{}
	m := newRouter(svc)

	rec, w := do(t, m, "GET", "/settings/au_seerev", "", "chair")
	if rec.Code != 200 {
		t.Fatalf("get status = %d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := w.Data.(map[string]any)
	if data["name"] != "au_seerev" || data["value"] != float64(1) {
		t.Fatalf("data = %#v", w.Data)
	}

	if rec, _ := do(t, m, "GET", "/settings/missing", "", "chair"); rec.Code != 404 {
		t.Fatalf("missing status = %d", rec.Code)
	}
	if rec, _ := do(t, m, "GET", "/settings/au_seerev", "", ""); rec.Code != 401 {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	rec, _ = do(t, m, "PUT", "/settings/rev_open", `{"value": 3}`, "chair")
	if rec.Code != 200 || svc.name != "rev_open" || *svc.in.Value != 3 {
		t.Fatalf("put status = %d svc=%+v", rec.Code, svc)
	}
	if svc.who.ContactID != 1 || svc.who.IPAddr != "192.0.2.7" {
		t.Fatalf("actor = %+v", svc.who)
	}

	if rec, _ := do(t, m, "PUT", "/settings/rev_open", `{"value": null}`, "chair"); rec.Code != 204 {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec, _ := do(t, m, "PUT", "/settings/rev_open", `{"bogus": 1}`, "chair"); rec.Code != 400 {
		t.Fatalf("unknown field status = %d", rec.Code)
	}
}
