package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"confsrv/internal/core/activity"
	"confsrv/internal/modkit/httpkit"
	perr "confsrv/internal/platform/errors"
	pnet "confsrv/internal/platform/net"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/services/activity/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	contact int64
	in      domain.FeedInput
	err     error
}

func (f *fakeSvc) BuildFeed(_ context.Context, contactID int64, in domain.FeedInput) (domain.Feed, error) {
	f.contact, f.in = contactID, in
	if f.err != nil {
		return domain.Feed{}, f.err
	}
	return domain.Feed{
		Items:        []domain.Item{{Kind: activity.KindComment, SortTime: 45, ContactID: 8, PaperID: 4}},
		NextPosition: "45.8.4",
	}, nil
}

func serve(svc domain.ServicePort, path, token string) (*httptest.ResponseRecorder, pnet.Wire) {
	m := chi.NewRouter()
	port := httpkit.NewPortFunc(httpkit.StaticTokens(map[string]string{"tok": "3"}))
	phttp.AdaptChi(m).Route("/activity", func(r httpkit.Router) {
		httpkit.Protected(r, port, func(pr httpkit.Router) { Register(pr, "/activity", svc) })
	})
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)
	var w pnet.Wire
	_ = json.Unmarshal(rec.Body.Bytes(), &w)
	return rec, w
}

func TestFeedRoute(t *testing.T) {
	t.Parallel()
	svc := &fakeSvc{}
	rec, w := serve(svc, "/activity/?position=50.9.1&limit=5", "tok")
	if rec.Code != 200 {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.contact != 3 || svc.in.Position != "50.9.1" || svc.in.Limit != 5 {
		t.Fatalf("service saw contact=%d in=%+v", svc.contact, svc.in)
	}
	data := w.Data.(map[string]any)
	items := data["items"].([]any)
	if data["next_position"] != "45.8.4" || len(items) != 1 || items[0].(map[string]any)["kind"] != "comment" {
		t.Fatalf("data = %#v", data)
	}
}

func TestFeedRoute_Errors(t *testing.T) {
	t.Parallel()
	if rec, _ := serve(&fakeSvc{}, "/activity/", ""); rec.Code != 401 {
		t.Fatalf("anonymous status = %d", rec.Code)
	}
	if rec, _ := serve(&fakeSvc{}, "/activity/?limit=ten", "tok"); rec.Code != 400 {
		t.Fatalf("bad limit status = %d", rec.Code)
	}
	rec, w := serve(&fakeSvc{err: perr.Unavailablef("activity is temporarily unavailable")}, "/activity/", "tok")
	if rec.Code != 503 || w.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("status = %d wire=%+v", rec.Code, w)
	}
}
