// Package module wires settings into the API using modkit
package module

import (
	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/module"
	"confsrv/internal/platform/net/middleware"
	aldomain "confsrv/internal/services/actionlog/domain"
	cdomain "confsrv/internal/services/contacts/domain"
	"confsrv/internal/services/settings/cache"
	"confsrv/internal/services/settings/domain"
	settingshttp "confsrv/internal/services/settings/http"
	settingsrepo "confsrv/internal/services/settings/repo"
	settingssvc "confsrv/internal/services/settings/service"
)

// Ports are the ports settings needs from other modules
type Ports struct {
	Contacts cdomain.Port
	Actions  aldomain.Port
	Auth     middleware.AuthPort
}

// Module implements the settings module
type Module struct {
	built modkit.Built
	svc   *settingssvc.Svc
	auth  middleware.AuthPort
}

// New constructs the module; missing ports are looked up in the module registry
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("settings", "/settings", opts...)
	p, _ := modkit.PortsAs[Ports](b)
	if p.Contacts == nil {
		p.Contacts, _ = module.PortsAs[cdomain.Port]("contacts")
	}
	if p.Actions == nil {
		p.Actions, _ = module.PortsAs[aldomain.Port]("actionlog")
	}
	if deps.PG() == nil {
		panic("settings module requires Postgres")
	}

	var svcOpts []settingssvc.Option
	if rdb := deps.Redis(); rdb != nil {
		conf := deps.Cfg.Prefix("CONFSRV_CONF_")
		ttl := conf.MayDuration("SETTINGS_TTL", cache.DefaultTTL)
		svcOpts = append(svcOpts, settingssvc.WithCache(cache.New(rdb, conf.MayString("ID", "default"), ttl)))
	}
	svc := settingssvc.New(deps.PG(), settingsrepo.NewPG(), p.Contacts, p.Actions, svcOpts...)

	deps.Log.Info().Str("module", b.Name).Bool("cached", deps.Redis() != nil).Msg("settings ready")
	return &Module{built: b, svc: svc, auth: p.Auth}
}

// MountRoutes mounts the settings routes behind bearer auth
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) {
		httpkit.Protected(sub, m.auth, func(pr httpkit.Router) {
			settingshttp.Register(pr, m.built.Prefix, m.svc)
		})
	})
}

// Ports returns the domain.ServicePort, which is also a domain.Reader
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

