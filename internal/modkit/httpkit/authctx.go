package httpkit

import (
	"net/http"

	perr "confsrv/internal/platform/errors"
	pnet "confsrv/internal/platform/net"
)

// Contact returns the authenticated contact id of r
func Contact(r *http.Request) (int64, error) {
	id, ok := pnet.ContactID(r.Context())
	if !ok {
		return 0, perr.Unauthorizedf("missing bearer token")
	}
	return id, nil
}
