package service

import (
	"time"

	"confsrv/internal/platform/config"
)

// Config is the feed tuning read from CONFSRV_FEED_*
type Config struct {
	DefaultLimit int
	MaxLimit     int
	// MinBatch raises the per-refill batch above the page limit; 0 fetches limit rows
	MinBatch         int
	ParallelRefill   bool
	SoftDeadline     time.Duration
	StatementTimeout time.Duration
}

// DefaultConfig is used for any value the environment leaves unset
var DefaultConfig = Config{
	DefaultLimit:     25,
	MaxLimit:         200,
	StatementTimeout: 5 * time.Second,
}

// ConfigFrom reads the feed settings under c, which is usually the root view
func ConfigFrom(c config.Conf) Config {
	f := c.Prefix("CONFSRV_FEED_")
	d := DefaultConfig
	cfg := Config{
		DefaultLimit:     f.MayInt("DEFAULT_LIMIT", d.DefaultLimit),
		MaxLimit:         f.MayInt("MAX_LIMIT", d.MaxLimit),
		MinBatch:         f.MayInt("MIN_BATCH", d.MinBatch),
		ParallelRefill:   f.MayBool("PARALLEL_REFILL", d.ParallelRefill),
		SoftDeadline:     f.MayDuration("SOFT_DEADLINE", d.SoftDeadline),
		StatementTimeout: f.MayDuration("STATEMENT_TIMEOUT", d.StatementTimeout),
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = d.MaxLimit
	}
	cfg.DefaultLimit = min(max(cfg.DefaultLimit, 1), cfg.MaxLimit)
	return cfg
}
