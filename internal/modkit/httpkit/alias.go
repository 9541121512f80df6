// Package httpkit is the HTTP surface modules use instead of importing the platform packages
package httpkit

import (
	"net/http"

	phttp "confsrv/internal/platform/net/http"
)

type (
	// Response is a return-style handler result
	Response = phttp.Response
	// Handler is the platform handler type
	Handler = phttp.Handler
	// Router is the platform router seam
	Router = phttp.Router
)

// OK is a 200 with data
func OK(data any) Response { return phttp.OK(data) }

// NoContent is a 204
func NoContent() Response { return phttp.NoContent() }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) { phttp.Get(r, path, h) }

// GetQuery mounts a handler whose query string is bound into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.GetQuery(r, path, h)
}

// PutJSON mounts a handler whose JSON body is bound into T
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PutJSON(r, path, h)
}
