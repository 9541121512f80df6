// Package swaggerkit serves the swagger UI over an OpenAPI document assembled from the
// operations modules register while mounting
package swaggerkit

import (
	"net/http"

	phttp "confsrv/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI at /api/docs and the document at /api/docs/doc.json when enabled
func Mount(r phttp.Router, enabled bool, title, version string) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(title, version))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("confsrv"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
