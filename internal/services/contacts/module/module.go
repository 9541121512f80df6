// Package module publishes the contacts port; it mounts no routes
package module

import (
	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/services/contacts/domain"
	"confsrv/internal/services/contacts/repo"
)

// Module holds the bound contacts repo
type Module struct {
	name string
	port domain.Port
}

// New binds the repo to the primary database
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("contacts", "/contacts", opts...)
	if deps.PG() == nil {
		panic("contacts module requires Postgres")
	}
	return &Module{name: b.Name, port: repo.NewPG().Bind(deps.PG())}
}

// MountRoutes is a no-op
func (m *Module) MountRoutes(httpkit.Router) {}

// Ports returns the domain.Port
func (m *Module) Ports() any { return m.port }

// Name returns the module name
func (m *Module) Name() string { return m.name }
