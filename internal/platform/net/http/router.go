package http

import "net/http"

// Handler is a plain handler func; modules mostly use the typed sugar in sugar.go
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules see of the mux. Only the verbs the API serves are
// exposed; Handle covers anything else (swagger UI, pprof).
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Put(path string, h Handler)
	Handle(path string, h http.Handler)

	// Use, Group and Route scope middleware the way chi does
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}
