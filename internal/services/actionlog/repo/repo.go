// Package repo stores action log entries in Postgres or ClickHouse
package repo

import (
	"context"
	"fmt"
	"strings"

	"confsrv/internal/modkit/repokit"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/store"
	"confsrv/internal/services/actionlog/domain"
)

// Table is the action log table in both stores
const Table = "action_log"

type pgSink struct{ q repokit.Queryer }

// NewPG returns a binder for the Postgres sink
func NewPG() repokit.Binder[domain.Sink] {
	return repokit.BindFunc[domain.Sink](func(q repokit.Queryer) domain.Sink { return pgSink{q: q} })
}

// Write inserts every entry in one statement
func (s pgSink) Write(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	const cols = 6
	var b strings.Builder
	b.WriteString("insert into action_log (id, at, ip_addr, contact_id, paper_id, action) values ")
	args := make([]any, 0, len(entries)*cols)
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, e.ID, e.At, e.IPAddr, e.ContactID, e.PaperID, e.Action)
	}
	if _, err := s.q.Exec(ctx, b.String(), args...); err != nil {
		return perr.FromPostgres(err, "write action log")
	}
	return nil
}

type chSink struct{ ch store.Clickhouse }

// NewCH returns the ClickHouse sink; paper_id 0 stands for no paper there
func NewCH(ch store.Clickhouse) domain.Sink { return chSink{ch: ch} }

// Write batch-inserts entries into the append-only table
func (s chSink) Write(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		var pid int64
		if e.PaperID != nil {
			pid = *e.PaperID
		}
		rows = append(rows, []any{e.ID, e.At, e.IPAddr, e.ContactID, pid, e.Action})
	}
	if err := s.ch.Insert(ctx, Table, rows); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "write action log")
	}
	return nil
}
