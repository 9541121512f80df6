// Package module wires the activity feed into the API using modkit
package module

import (
	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/module"
	"confsrv/internal/modkit/repokit"
	"confsrv/internal/platform/net/middleware"
	"confsrv/internal/services/activity/domain"
	activityhttp "confsrv/internal/services/activity/http"
	activityrepo "confsrv/internal/services/activity/repo"
	activitysvc "confsrv/internal/services/activity/service"
	cdomain "confsrv/internal/services/contacts/domain"
	sdomain "confsrv/internal/services/settings/domain"
)

// Ports are the ports the feed needs from other modules
type Ports struct {
	Contacts cdomain.Port
	Settings sdomain.Reader
	Auth     middleware.AuthPort
}

// Module implements the activity module
type Module struct {
	built modkit.Built
	cfg   activitysvc.Config
	svc   *activitysvc.Svc
	auth  middleware.AuthPort
}

// New constructs the module; missing ports are looked up in the module registry
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("activity", "/activity", opts...)
	p, _ := modkit.PortsAs[Ports](b)
	if p.Contacts == nil {
		p.Contacts, _ = module.PortsAs[cdomain.Port]("contacts")
	}
	if p.Settings == nil {
		p.Settings, _ = module.PortsAs[sdomain.ServicePort]("settings")
	}
	if deps.PG() == nil {
		panic("activity module requires Postgres")
	}

	cfg := activitysvc.ConfigFrom(deps.Cfg)
	db := repokit.WithBeginHooks(deps.PG(), repokit.ReadOnly(), repokit.StatementTimeout(cfg.StatementTimeout))
	svc := activitysvc.New(activityrepo.NewPG(db), p.Contacts, p.Settings, cfg)

	deps.Log.Info().
		Str("module", b.Name).
		Int("default_limit", cfg.DefaultLimit).
		Int("max_limit", cfg.MaxLimit).
		Bool("parallel_refill", cfg.ParallelRefill).
		Dur("soft_deadline", cfg.SoftDeadline).
		Msg("activity feed ready")
	return &Module{built: b, cfg: cfg, svc: svc, auth: p.Auth}
}

// MountRoutes mounts the feed behind bearer auth
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		httpkit.Protected(sub, m.auth, func(pr httpkit.Router) {
			activityhttp.Register(pr, m.built.Prefix, m.svc)
		})
	})
}

// Ports returns the domain.ServicePort
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }
