package pg

import (
	"context"
	"strings"

	"confsrv/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at debug and slow or failed ones at warn.
// Its level is pinned so enabling SQL logging works under an info root.
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log zerolog.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	e := z.log.Debug()
	if ev.Slow || ev.Err != nil {
		e = z.log.Warn()
	}
	e.Ctx(ctx).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// Compact folds runs of whitespace in a statement into single spaces
func Compact(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
