// Package version reports build information stamped in with -ldflags
package version

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build info for service.
// Stamp with -ldflags "-X confsrv/internal/core/version.version=v0.3.0 -X confsrv/internal/core/version.commit=abcd"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
