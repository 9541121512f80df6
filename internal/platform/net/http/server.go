package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"confsrv/internal/platform/config"
	"confsrv/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerConfig holds listener settings
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// ServerConfigFrom reads PORT and the *_TIMEOUT keys from cfg
func ServerConfigFrom(cfg config.Conf) ServerConfig {
	return ServerConfig{
		Addr:              ":" + cfg.MayString("PORT", "4000"),
		ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout:   cfg.MayDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Server is chi behind a stdlib http.Server
type Server struct {
	cfg ServerConfig
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer builds a server; opts receive the mux before any route is mounted
func NewServer(cfg ServerConfig, opts ...func(*chi.Mux)) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":4000"
	}
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		cfg: cfg,
		mux: m,
		srv: &stdhttp.Server{
			Addr:              cfg.Addr,
			Handler:           m,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Router returns the platform router over the mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the mux, mostly for tests
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the listen address
func (s *Server) Addr() string { return s.cfg.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Info().Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
