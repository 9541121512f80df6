package store

import "confsrv/internal/platform/logger"

// Option adjusts a Store before any backend opens
type Option func(*Store) error

// WithLogger sets the logger backends and the sql tracer derive from
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
