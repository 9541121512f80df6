package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "confsrv/internal/platform/net/http"
	"confsrv/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORS     middleware.CORSOptions
	Timeout  time.Duration
	SlowLog  time.Duration
	Throttle int
	Backlog  int
}

// CommonStack is the API-wide middleware chain, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowLog}),
		middleware.RecoverJSON(phttp.JSON),
		middleware.CORS(o.CORS),
		middleware.ThrottleBacklog(o.Throttle, o.Backlog, o.Timeout),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
