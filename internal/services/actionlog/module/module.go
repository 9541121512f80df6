// Package module wires the action log into the API using modkit
package module

import (
	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/services/actionlog/domain"
	alrepo "confsrv/internal/services/actionlog/repo"
	alsvc "confsrv/internal/services/actionlog/service"
)

// Module exposes the action log port; it has no routes
type Module struct {
	name string
	svc  *alsvc.Service
}

// New picks the ClickHouse sink when ClickHouse is open, Postgres otherwise
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("actionlog", "/actionlog", opts...)

	var sink domain.Sink
	switch {
	case deps.CH() != nil:
		sink = alrepo.NewCH(deps.CH())
	case deps.PG() != nil:
		sink = alrepo.NewPG().Bind(deps.PG())
	default:
		panic("actionlog module requires ClickHouse or Postgres")
	}
	deps.Log.Info().Str("module", b.Name).Bool("clickhouse", deps.CH() != nil).Msg("action log sink ready")
	return &Module{name: b.Name, svc: alsvc.New(sink)}
}

// MountRoutes is a no-op; actions are recorded by other modules
func (m *Module) MountRoutes(httpkit.Router) {}

// Ports returns the domain.Port
func (m *Module) Ports() any { return domain.Port(m.svc) }

// Name returns the module name
func (m *Module) Name() string { return m.name }
