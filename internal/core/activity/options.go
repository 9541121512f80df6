package activity

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Merger
type Option func(*options)

type options struct {
	batch    func(limit int) int
	parallel bool
	deadline time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func defaultOptions() options {
	return options{
		batch: func(limit int) int { return limit },
		now:   time.Now,
		log:   zerolog.Nop(),
	}
}

// WithBatchSize overrides how many rows are requested per refill.
// Results below 1 are clamped to 1.
func WithBatchSize(f func(limit int) int) Option {
	return func(o *options) {
		if f != nil {
			o.batch = f
		}
	}
}

// WithFixedBatch requests n rows per refill regardless of the page limit
func WithFixedBatch(n int) Option {
	return WithBatchSize(func(int) int { return n })
}

// WithParallelRefill fetches both sides concurrently when both need a refill
func WithParallelRefill(on bool) Option {
	return func(o *options) { o.parallel = on }
}

// WithSoftDeadline stops issuing fetches once d has elapsed since the build
// started; the partial page is returned with Truncated set
func WithSoftDeadline(d time.Duration) Option {
	return func(o *options) { o.deadline = d }
}

// WithClock replaces time.Now for deadline accounting
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger enables debug logging of refills
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}
