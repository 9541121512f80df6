package net_test

import (
	"context"
	"testing"

	pnet "confsrv/internal/platform/net"
)

func TestWithRequest(t *testing.T) {
	base := context.Background()

	if ctx := pnet.WithRequest(base, ""); ctx != base {
		t.Fatalf("empty id should leave ctx unchanged")
	}
	ctx := pnet.WithRequest(base, "req-123")
	if got := pnet.RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID got %q want %q", got, "req-123")
	}
	if got := pnet.RequestID(base); got != "" {
		t.Fatalf("RequestID on bare ctx got %q", got)
	}
}

func TestWithContact(t *testing.T) {
	base := context.Background()

	if _, ok := pnet.ContactID(base); ok {
		t.Fatalf("bare ctx should be anonymous")
	}
	for _, id := range []int64{0, -4} {
		if ctx := pnet.WithContact(base, id); ctx != base {
			t.Fatalf("id %d should be ignored", id)
		}
	}
	ctx := pnet.WithContact(pnet.WithRequest(base, "r"), 42)
	id, ok := pnet.ContactID(ctx)
	if !ok || id != 42 {
		t.Fatalf("ContactID = %d,%v want 42,true", id, ok)
	}
	if pnet.RequestID(ctx) != "r" {
		t.Fatalf("request id lost")
	}
}
