package client

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesCredentialsTable(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	require.True(t, tableExists(t, db, "goose_db_version"))
	require.True(t, tableExists(t, db, "credentials"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "credentials"))
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "crm.db"))
	require.Error(t, err)
}

func TestInitDatabase_IsQuiet(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(orig) })

	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Empty(t, buf.String(), "migrations write nothing to the standard logger")
}
