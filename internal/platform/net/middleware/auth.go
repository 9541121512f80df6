package middleware

import (
	"net/http"

	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/logger"
	pnet "confsrv/internal/platform/net"
)

// AuthPort resolves the contact making the request
type AuthPort interface {
	Parse(r *http.Request) (contactID int64, err error)
}

// Auth rejects requests the port cannot resolve and stores the contact id on the context.
// Without a port every request is unauthorized.
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := pnet.RequestID(r.Context())
			var (
				id  int64
				err error
			)
			if p == nil {
				err = perr.Unauthorizedf("authentication is not configured")
			} else {
				id, err = p.Parse(r)
			}
			if err == nil && id <= 0 {
				err = perr.Unauthorizedf("unknown contact")
			}
			if err != nil {
				if perr.CodeOf(err) != perr.ErrorCodeUnauthorized {
					err = perr.Wrap(err, perr.ErrorCodeUnauthorized, "unauthorized")
				}
				status, body := pnet.Error(err, reqID)
				write(w, status, body)
				return
			}
			ctx := pnet.WithContact(r.Context(), id)
			ctx = logger.WithRequest(ctx, reqID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
