package client

import (
	"context"
	"database/sql"
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

func schemaVersion(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var v int64
	require.NoError(t, db.QueryRow(`SELECT MAX(version_id) FROM goose_db_version`).Scan(&v))
	return v
}

func TestInitDatabase_AppliesSchema(t *testing.T) {
	db, err := InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "metadata", "philosophies"} {
		assert.True(t, tableExists(t, db, table), table)
	}
	assert.EqualValues(t, 2, schemaVersion(t, db))
}

func TestInitDatabase_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "site.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES ('supabase.auth.session', x'7b7d')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err, "migrations are idempotent")
	defer db.Close()

	var value []byte
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'supabase.auth.session'`).Scan(&value))
	assert.Equal(t, []byte("{}"), value)
	assert.EqualValues(t, 2, schemaVersion(t, db))
}

func TestInitDatabase_ListColumnsDefaultToEmpty(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO philosophies (id, title, description, image, category, created_at, updated_at)
		VALUES ('ma', 'Ma', 'Negative space', 'https://example.com/ma.jpg', 'Aesthetics', 0, 0)`)
	require.NoError(t, err)

	var full, principles string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT full_description, principles FROM philosophies WHERE id = 'ma'`).Scan(&full, &principles))
	assert.Equal(t, "[]", full)
	assert.Equal(t, "[]", principles)
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "site.db"))
	require.Error(t, err)
}
