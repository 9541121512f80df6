// Package http provides http transport for the activity feed
package http

import (
	stdhttp "net/http"

	"confsrv/internal/modkit/httpkit"
	"confsrv/internal/modkit/swaggerkit"
	"confsrv/internal/services/activity/domain"
)

// Register mounts GET / on r; callers put it behind auth
func Register(r httpkit.Router, prefix string, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetQuery[domain.FeedInput](r, "/", h.feed)

	swaggerkit.Register(swaggerkit.Op{
		Method: "GET", Path: prefix, Tag: "Activity", Secure: true,
		Summary: "Recent reviews and comments the caller may see, newest first",
		Params: []swaggerkit.Param{
			{Name: "position", In: "query", Type: "string", Desc: "next_position of the previous page, \"<time>.<contact>.<paper>\""},
			{Name: "limit", In: "query", Type: "integer", Desc: "page size; 0 or absent uses the server default"},
		},
	})
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) feed(r *stdhttp.Request, in domain.FeedInput) (any, error) {
	contact, err := httpkit.Contact(r)
	if err != nil {
		return nil, err
	}
	return h.svc.BuildFeed(r.Context(), contact, in)
}
