package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE credentials (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM credentials`).Scan(&n))
	return n
}

func insertPair(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('token', 'abc')`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('user', '{}')`)
	return err
}

func TestWithTx_CommitsBothRows(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, insertPair)
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, db))
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('token', 'abc')`)
		require.NoError(t, e)
		return errors.New("user row failed")
	})
	require.Error(t, err)
	require.Equal(t, 0, countRows(t, db), "a half-written pair must not survive")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countRows(t, db), "must rollback on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO credentials(key, value) VALUES ('token', 'abc')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "begin tx")
}

func TestWithTx_FnErrorReturnedAsIs(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, tx.(*sql.Tx).Rollback())
		return boom
	})
	require.Equal(t, boom, err, "an already finished tx adds no rollback error")
}

func TestWithTx_CommitError(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return tx.(*sql.Tx).Commit()
	})
	require.ErrorIs(t, err, sql.ErrTxDone)
	require.Contains(t, err.Error(), "commit tx")
}
