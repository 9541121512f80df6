// Package api composes the confsrv HTTP API from its modules
package api

import (
	"time"

	"confsrv/internal/core/version"
	"confsrv/internal/platform/config"
	"confsrv/internal/platform/logger"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/net/middleware"
	"confsrv/internal/platform/store"

	"confsrv/internal/modkit"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/module"
	"confsrv/internal/modkit/swaggerkit"

	actionlogmod "confsrv/internal/services/actionlog/module"
	activitymod "confsrv/internal/services/activity/module"
	metamod "confsrv/internal/services/api/meta/module"
	contactsmod "confsrv/internal/services/contacts/module"
	settingsmod "confsrv/internal/services/settings/module"
)

// Options are the API options
type Options struct {
	Service        string
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Auth           middleware.AuthPort
	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
}

// StackFrom reads the middleware tuning under CONFSRV_API_
func StackFrom(c config.Conf) httpkit.StackOptions {
	api := c.Prefix("CONFSRV_API_")
	return httpkit.StackOptions{
		CORS: middleware.CORSOptions{
			AllowedOrigins:   api.MayCSV("CORS_ORIGINS", nil),
			AllowCredentials: api.MayBool("CORS_CREDENTIALS", false),
		},
		Timeout:  api.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowLog:  api.MayDuration("SLOW_REQUEST", time.Second),
		Throttle: api.MayInt("THROTTLE", 0),
		Backlog:  api.MayInt("THROTTLE_BACKLOG", 0),
	}
}

// AuthFrom builds the bearer token port from CONFSRV_API_TOKENS ("token:contactId,...")
func AuthFrom(c config.Conf) *httpkit.Port {
	return httpkit.NewPortFunc(httpkit.StaticTokens(c.Prefix("CONFSRV_API_").MayPairs("TOKENS")))
}

// Mount builds every module and mounts the API on r. Modules are built in
// dependency order and publish their ports before the next one is built.
func Mount(r phttp.Router, opt Options) []modkit.Module {
	log := logger.Get()
	if opt.Logger != nil {
		log = opt.Logger
	}
	deps := modkit.Deps{Log: *log, Cfg: opt.Config, Store: opt.Store}

	build := func(m modkit.Module) modkit.Module {
		module.Publish(m)
		return m
	}
	mods := []modkit.Module{
		build(metamod.New(deps, opt.Service)),
		build(contactsmod.New(deps)),
		build(actionlogmod.New(deps)),
		build(settingsmod.New(deps, modkit.WithPorts(settingsmod.Ports{Auth: opt.Auth}))),
		build(activitymod.New(deps, modkit.WithPorts(activitymod.Ports{Auth: opt.Auth}))),
	}

	swaggerkit.Mount(r, opt.EnableSwagger, "confsrv API", version.Info(opt.Service).Version)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	log.Info().Strs("modules", names).Bool("swagger", opt.EnableSwagger).Msg("api mounted")
	return mods
}
