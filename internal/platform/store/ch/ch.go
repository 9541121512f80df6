// Package ch wraps clickhouse-go for the store's columnar seam
package ch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the client; URL is a clickhouse:// DSN
type Config struct {
	URL         string
	Role        string
	Tag         string
	DialTimeout time.Duration
}

// Rows is the result set surface the store needs
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// Batch is an open INSERT being filled row by row
type Batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

type conn interface {
	query(ctx context.Context, sql string, args ...any) (Rows, error)
	prepare(ctx context.Context, sql string) (Batch, error)
	Ping(ctx context.Context) error
	Close() error
}

type driverConn struct{ driver.Conn }

func (d driverConn) query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return d.Conn.Query(ctx, sql, args...)
}

func (d driverConn) prepare(ctx context.Context, sql string) (Batch, error) {
	return d.Conn.PrepareBatch(ctx, sql)
}

// CH is a connected ClickHouse client
type CH struct{ c conn }

// openConn is swapped in tests
var openConn = func(opts *clickhouse.Options) (conn, error) {
	c, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	return driverConn{c}, nil
}

// Open dials ClickHouse and pings it once
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	c, err := openConn(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return &CH{c: c}, nil
}

// Insert appends rows to table in one batch; each row lists values in column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if strings.ContainsAny(table, " ;'\"`") || table == "" {
		return fmt.Errorf("ch: bad table name %q", table)
	}
	b, err := c.c.prepare(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, r := range rows {
		if err := b.Append(r...); err != nil {
			return errors.Join(fmt.Errorf("ch: append row %d: %w", i, err), b.Abort())
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs a read
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.c.query(ctx, sql, args...)
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Close closes the connection
func (c *CH) Close() error { return c.c.Close() }
