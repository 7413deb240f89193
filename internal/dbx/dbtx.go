// Package dbx holds the small database/sql helpers the local sqlite
// repositories share.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what a repository needs to run queries. *sql.DB and *sql.Tx both
// implement it, so the same repository works inside and outside a
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction on db. The transaction commits only
// if fn returns nil; an error or a panic from fn rolls it back, and the
// panic is re-raised afterwards. A failed rollback is reported together
// with the error that caused it.
//
// The token store writes the token and the user record through it so that
// storage never holds one without the other:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := credentials.NewSQLiteRepository(tx)
//	    if err := repo.Set(ctx, "token", token); err != nil {
//	        return err
//	    }
//	    return repo.Set(ctx, "user", user)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// done is set once fn has returned; until then a panic unwinds
	// through this rollback.
	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	err = fn(ctx, tx)
	done = true
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback tx: %w", rerr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
