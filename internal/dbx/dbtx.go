// Package dbx provides the small DB abstractions shared by repositories and
// services: a handle interface (DBTX) satisfied by both *sqlx.DB and *sqlx.Tx,
// scoped transactions with guaranteed rollback, and retry of transactions
// that lost a race against a concurrent writer.
package dbx

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
)

// DBTX is the subset of sqlx used by our repos.
// Both *sqlx.DB and *sqlx.Tx satisfy this interface. Rebind turns the
// repositories' "?" placeholders into the driver's native form.
type DBTX interface {
	sqlx.ExtContext
}

// TxFunc is the body of a transaction. It must use tx, never the pool.
type TxFunc func(ctx context.Context, tx DBTX) error

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE vaccines SET doses = doses + ? WHERE name = ?"), n, name)
//	    return err
//	})
func WithTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// retryBase is the first backoff interval; a seam for tests.
var retryBase = 10 * time.Millisecond

// WithTxRetry runs fn through WithTx and repeats the whole transaction, up to
// retries extra times with exponential backoff, while it fails with an error
// IsRetryable accepts. Any other error is returned at once. When retries run
// out the last error is returned unwrapped.
func WithTxRetry(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, retries uint64, fn TxFunc) error {
	b := retry.WithMaxRetries(retries, retry.NewExponential(retryBase))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := WithTx(ctx, db, opts, fn)
		if err != nil && IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// TxPolicy bundles how service-level transactions are run: isolation,
// retry budget and an upper bound on the whole unit of work.
type TxPolicy struct {
	Options *sql.TxOptions
	Retries uint64
	Timeout time.Duration
}

// Run executes fn under the policy. A transaction that exceeds Timeout is
// cancelled and rolled back entirely.
func (p TxPolicy) Run(ctx context.Context, db *sqlx.DB, fn TxFunc) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return WithTxRetry(ctx, db, p.Options, p.Retries, fn)
}
