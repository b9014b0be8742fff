// Package dbx provides the small DB abstractions shared by repositories:
// DBTX, satisfied by both *sql.DB and *sql.Tx, and WithTx for running a unit
// of work atomically.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. The transaction is committed
// when fn returns nil and rolled back when fn fails or panics; panics are
// rethrown after rollback.
//
// A nil db means the caller runs on in-memory repositories, which ignore the
// handle they are given. fn is then invoked with a nil DBTX and its error is
// returned unchanged.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	if db == nil {
		return fn(ctx, nil)
	}

	tx, err := db.BeginTx(ctx, opts)
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

	return fn(ctx, tx)
}
