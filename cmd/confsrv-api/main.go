// @title         confsrv API
// @version       0.1.0
// @description   Conference settings and the merged review/comment activity feed

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"confsrv/internal/modkit/repokit"
	"confsrv/internal/platform/config"
	"confsrv/internal/platform/logger"
	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/net/middleware"
	"confsrv/internal/platform/store"

	"confsrv/internal/services/api"

	"github.com/go-chi/chi/v5"
)

const service = "confsrv-api"

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("CONFSRV_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.ConfigFrom(root, service, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	srv := phttp.NewServer(phttp.ServerConfigFrom(apiCfg), func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/ping"))
	})

	api.Mount(srv.Router(), api.Options{
		Service:        service,
		Config:         root,
		Store:          st,
		Logger:         l,
		Auth:           api.AuthFrom(root),
		Stack:          api.StackFrom(root),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
