// Package pg opens the pgx pool behind the store's sql seam
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	AppName  string
	MaxConns int32
	SlowMs   int

	// ConnectRetries bounds the initial ping loop; 0 means a single attempt
	ConnectRetries int
	PingTimeout    time.Duration
}

// PG is an open pool plus the tracer queries report to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// newPool is swapped in tests
var newPool = pgxpool.NewWithConfig

// sleep is swapped in tests
var sleep = time.Sleep

// Open parses cfg.URL, applies mut and builds the pool; it does not ping
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if mut != nil {
		mut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// WaitReady pings until the server answers, backing off between attempts
func (p *PG) WaitReady(ctx context.Context, cfg Config) error {
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	backoff := 150 * time.Millisecond
	var last error
	for attempt := 0; attempt <= cfg.ConnectRetries; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = p.Pool.Ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < cfg.ConnectRetries {
			sleep(backoff)
			backoff = min(backoff*2, 2*time.Second)
		}
	}
	return fmt.Errorf("pg: ping failed after %d attempts: %w", cfg.ConnectRetries+1, last)
}

// Close releases the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
