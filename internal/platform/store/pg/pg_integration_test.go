//go:build integration_pg

package pg

import (
	"context"
	"testing"
	"time"

	"confsrv/internal/platform/store/pg/pgtest"
)

func TestOpenAndWaitReady(t *testing.T) {
	dsn := pgtest.Start(t)
	ctx := context.Background()
	cfg := Config{URL: dsn, AppName: "confsrv-pg-it", ConnectRetries: 5, PingTimeout: 2 * time.Second}

	p, err := Open(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(p.Close)

	if err := p.WaitReady(ctx, cfg); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	var app string
	if err := p.Pool.QueryRow(ctx, "select current_setting('application_name')").Scan(&app); err != nil {
		t.Fatalf("query: %v", err)
	}
	if app != "confsrv-pg-it" {
		t.Fatalf("application_name = %q", app)
	}
}
