// Package config reads application settings from environment variables.
// Must* accessors panic through the logger on missing or malformed values;
// May* accessors fall back to a default and warn when a value is malformed.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"confsrv/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. New().Prefix("CONFSRV_API_")
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix returns a child view whose keys are prefixed by p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully qualified variable name for k
func (c Conf) Key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.Key(k))) }

func (c Conf) fail(k, value, msg string) {
	ev := logger.Get().Panic().Str("key", c.Key(k))
	if value != "" {
		ev = ev.Str("value", value)
	}
	ev.Msg(msg)
}

func (c Conf) warn(k, value, msg string) {
	logger.Get().Warn().Str("key", c.Key(k)).Str("value", value).Msg(msg)
}

// MustString returns the value of k or panics when it is unset
func (c Conf) MustString(k string) string {
	v := c.lookup(k)
	if v == "" {
		c.fail(k, "", "missing required env")
	}
	return v
}

// MustInt returns k as an int or panics
func (c Conf) MustInt(k string) int {
	s := c.MustString(k)
	n, err := strconv.Atoi(s)
	if err != nil {
		c.fail(k, s, "invalid int value")
	}
	return n
}

// MustPort validates k as a TCP port and returns a listen address like ":8080"
func (c Conf) MustPort(k string) string {
	s := c.MustString(k)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.fail(k, s, "invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// Require panics on the first key that is unset
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		if c.lookup(k) == "" {
			c.fail(k, "", "missing required env")
		}
	}
}

// MayString returns the value of k or def
func (c Conf) MayString(k, def string) string {
	if v := c.lookup(k); v != "" {
		return v
	}
	return def
}

// MayInt returns k as an int, or def when unset or malformed
func (c Conf) MayInt(k string, def int) int {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		c.warn(k, s, "invalid int; using default")
		return def
	}
	return n
}

// MayInt64 returns k as an int64, or def when unset or malformed
func (c Conf) MayInt64(k string, def int64) int64 {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		c.warn(k, s, "invalid int64; using default")
		return def
	}
	return n
}

// MayBool returns k as a bool, or def when unset or malformed
func (c Conf) MayBool(k string, def bool) bool {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		c.warn(k, s, "invalid bool; using default")
		return def
	}
	return b
}

// MayDuration returns k as a duration ("250ms", "2s"), or def when unset or malformed
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	s := c.lookup(k)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.warn(k, s, "invalid duration; using default")
		return def
	}
	return d
}

// MayCSV splits k on commas, dropping blanks; def when nothing remains
func (c Conf) MayCSV(k string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayPairs parses k as "key:value,key:value"; malformed entries are skipped with a warning
func (c Conf) MayPairs(k string) map[string]string {
	out := map[string]string{}
	for _, p := range c.MayCSV(k, nil) {
		key, val, ok := strings.Cut(p, ":")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			c.warn(k, p, "malformed pair; skipping")
			continue
		}
		out[key] = val
	}
	return out
}

// MayEnum returns k when it matches one of allowed (case-insensitive), def when unset,
// and panics otherwise
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v := c.MayString(k, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	c.fail(k, v, "invalid enum value")
	return ""
}
