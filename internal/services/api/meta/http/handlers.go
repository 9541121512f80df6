// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"confsrv/internal/core/version"
	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/swaggerkit"
)

// Check pings one dependency
type Check func(stdctx.Context) error

// Deps are the handler dependencies; a nil check is reported as skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      map[string]Check
	// Now is time.Now unless a test pins it
	Now func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, prefix string, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)

	for path, summary := range map[string]string{
		"/health":  "Liveness",
		"/ready":   "Readiness with dependency checks",
		"/version": "Build and version info",
	} {
		swaggerkit.Register(swaggerkit.Op{Method: "GET", Path: prefix + path, Tag: "Meta", Summary: summary})
	}
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
	Now     string `json:"now"`
}

// ReadyCheck is a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.deps.Now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.UTC().Format(time.RFC3339),
	}, nil
}

// ready reports fail when any configured dependency fails and degraded when
// one is not configured
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := ReadyResponse{Status: "ok", Now: h.deps.Now().UTC().Format(time.RFC3339)}
	for _, name := range []string{"pg", "clickhouse", "redis"} {
		c := ReadyCheck{Name: name, Status: "ok"}
		switch check := h.deps.Checks[name]; {
		case check == nil:
			c.Status = "skipped"
			if out.Status == "ok" {
				out.Status = "degraded"
			}
		default:
			if err := check(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
				out.Status = "fail"
			}
		}
		out.Checks = append(out.Checks, c)
	}
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}
