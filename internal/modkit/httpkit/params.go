package httpkit

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// URLParam returns the named path parameter of the matched route
func URLParam(r *http.Request, key string) string { return chi.URLParam(r, key) }

// ClientIP is the remote address without its port; RealIP has already applied proxy headers
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
