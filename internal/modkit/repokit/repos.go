// Package repokit holds the types and helpers repos are written with
package repokit

import (
	"context"

	"confsrv/internal/platform/store"
)

type (
	// Queryer is the sql surface repos use
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that opens transactions
	TxRunner = store.TxRunner
	// Rows is an open result set
	Rows = store.Rows
	// Row is a single result row
	Row = store.Row
	// CommandTag reports what a write did
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
