package modkit

import (
	"net/http"

	phttp "confsrv/internal/platform/net/http"
	pstrings "confsrv/internal/platform/strings"
)

// Built is the resolved module configuration
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts; defaults fill in name and prefix when they are unset
func Build(defName, defPrefix string, opts ...Option) Built {
	c := buildCfg{name: defName, prefix: defPrefix}
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount registers routes under the module prefix with the module middleware applied
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	r.Route(pstrings.MustPrefix(b.Prefix), func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	})
}

// PortsAs returns the injected ports as T
func PortsAs[T any](b Built) (T, bool) {
	p, ok := b.Ports.(T)
	return p, ok
}
