package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestDocument(t *testing.T) {
	testkit.Serial(t)
	Reset()
	t.Cleanup(Reset)

	Register(Op{Method: "GET", Path: "/activity", Tag: "activity", Summary: "feed", Secure: true,
		Params: []Param{{Name: "limit", In: "query", Type: "integer"}}})
	Register(Op{Method: "PUT", Path: "/settings/{name}", Body: "SettingBody",
		Params: []Param{{Name: "name", In: "path", Type: "string"}}})
	Schema("SettingBody", map[string]any{"type": "object"})

	doc := Document("confsrv", "dev")
	paths := doc["paths"].(map[string]any)
	get := paths["/activity"].(map[string]any)["get"].(map[string]any)
	if _, ok := get["security"]; !ok {
		t.Fatal("secure op lacks security")
	}
	if _, ok := get["responses"].(map[string]any)["401"]; !ok {
		t.Fatal("secure op lacks 401")
	}
	put := paths["/settings/{name}"].(map[string]any)["put"].(map[string]any)
	p := put["parameters"].([]any)[0].(map[string]any)
	if p["required"] != true {
		t.Fatal("path params are required")
	}
	if _, ok := put["requestBody"]; !ok {
		t.Fatal("body missing")
	}
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["SettingBody"]; !ok {
		t.Fatal("schema not registered")
	}
}

func TestMount(t *testing.T) {
	testkit.Serial(t)
	Reset()
	t.Cleanup(Reset)

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), true, "confsrv", "dev")

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil || doc["openapi"] != "3.0.3" {
		t.Fatalf("doc.json: %d %v %v", rec.Code, err, doc["openapi"])
	}

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect = %d", rec.Code)
	}

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), false, "", "")
	rec = httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs served %d", rec.Code)
	}
}
