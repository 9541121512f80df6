// Package raw reads environment variables without logging; the logger
// bootstraps from it, so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view, e.g. New().Prefix("LOG_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.prefix + k)) }

// Get returns the trimmed value or def
func (c Conf) Get(k, def string) string {
	if v := c.lookup(k); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1/true/yes/on; any other non-empty value is false
func (c Conf) GetBool(k string, def bool) bool {
	v := strings.ToLower(c.lookup(k))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt parses a non-negative integer; anything else yields def
func (c Conf) GetInt(k string, def int) int {
	n, err := strconv.Atoi(c.lookup(k))
	if err != nil || n < 0 {
		return def
	}
	return n
}
