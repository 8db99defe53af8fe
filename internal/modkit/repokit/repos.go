// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"
	"time"

	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// retryBackoff is the first pause between attempts, doubled each time
var retryBackoff = 50 * time.Millisecond

// RetryTx runs fn in a transaction, retrying serialization failures and deadlocks
// attempts below 1 means a single try
func RetryTx(ctx context.Context, tx TxRunner, attempts int, fn func(q Queryer) error) error {
	if attempts < 1 {
		attempts = 1
	}
	wait := retryBackoff
	var err error
	for i := 0; i < attempts; i++ {
		if err = tx.Tx(ctx, fn); err == nil || !perr.IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}
