package store

import (
	"context"
	"fmt"
	"time"

	chx "confsrv/internal/platform/store/ch"
	"confsrv/internal/platform/store/pg"

	"github.com/redis/go-redis/v9"
)

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	pcfg := pg.Config{
		URL:            cfg.PG.URL,
		AppName:        cfg.AppName,
		MaxConns:       cfg.PG.MaxConns,
		SlowMs:         cfg.PG.SlowQueryMs,
		ConnectRetries: cfg.PG.ConnectRetries,
		PingTimeout:    cfg.PG.PingTimeout,
	}
	p, err := pg.Open(ctx, pcfg, tracer, nil)
	if err != nil {
		return nil, err
	}
	// ping the pool directly so boot retries stay out of the sql trace
	if err := p.WaitReady(ctx, pcfg); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.CH.Tag})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

// newRedis is swapped in tests
var newRedis = func(opts *redis.Options) redis.UniversalClient { return redis.NewClient(opts) }

func openRedis(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(cfg.RDS.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	if cfg.AppName != "" {
		opts.ClientName = cfg.AppName
	}
	c := newRedis(opts)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return c, nil
}
