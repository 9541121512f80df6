// Package module wires meta endpoints into the API
package module

import (
	"context"
	"time"

	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/platform/store"

	metahttp "confsrv/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	built     modkit.Built
	deps      modkit.Deps
	service   string
	startedAt time.Time
}

// New constructs the meta module for the named binary
func New(deps modkit.Deps, service string, opts ...modkit.Option) modkit.Module {
	return &Module{
		built:     modkit.Build("meta", "/meta", opts...),
		deps:      deps,
		service:   service,
		startedAt: time.Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		metahttp.Register(sub, m.built.Prefix, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Checks:      checks(m.deps),
		})
	})
}

func checks(d modkit.Deps) map[string]metahttp.Check {
	out := map[string]metahttp.Check{}
	if p, ok := d.PG().(store.Pinger); ok {
		out["pg"] = p.Ping
	}
	if p, ok := d.CH().(store.Pinger); ok {
		out["clickhouse"] = p.Ping
	}
	if rdb := d.Redis(); rdb != nil {
		out["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return out
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
