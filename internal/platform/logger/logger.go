// Package logger owns the process-wide zerolog root and the helpers that derive
// component and request loggers from it
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"confsrv/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type passed around the codebase
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // "console" | "json"
	Service     string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_* without going through config, which itself logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "info")),
		Format:      strings.ToLower(env.Get("FORMAT", "json")),
		Service:     env.Get("SERVICE", "confsrv"),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	rootPtr  atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		l := build(opt)
		rootPtr.Store(&l)
	})
}

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := rootPtr.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return rootPtr.Load()
}

func build(opt Options) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zc := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		zc = zc.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	for k, v := range opt.Fields {
		zc = zc.Str(k, v)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}

	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// ParseLevel maps a level name to zerolog; unknown names mean info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyViewerID
)

// WithRequest stores the request id and the acting contact on ctx
func WithRequest(ctx context.Context, reqID string, viewerID int64) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if viewerID > 0 {
		ctx = context.WithValue(ctx, keyViewerID, viewerID)
	}
	return ctx
}

// C returns a child of the root logger carrying the request fields found on ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	if s, ok := ctx.Value(keyRequestID).(string); ok {
		zc = zc.Str("request_id", s)
	}
	if id, ok := ctx.Value(keyViewerID).(int64); ok {
		zc = zc.Str("viewer", strconv.FormatInt(id, 10))
	}
	l := zc.Logger()
	return &l
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
