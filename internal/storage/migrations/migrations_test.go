package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exampleMigration = Migration{
	Version:     1,
	Description: "Add example test table",
	Up: `
		CREATE TABLE IF NOT EXISTS test_table (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)
	`,
	Down: `DROP TABLE IF EXISTS test_table`,
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyAndRollback(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	manager := NewManager(exampleMigration)
	version, err := manager.Apply(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	_, err = db.ExecContext(ctx, "INSERT INTO test_table (id, name) VALUES (1, 'test')")
	require.NoError(t, err, "test table should exist")

	// Applying again is a no-op
	version, err = manager.Apply(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	require.NoError(t, manager.Rollback(ctx, db))
	version, err = Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	_, err = db.ExecContext(ctx, "INSERT INTO test_table (id, name) VALUES (2, 'test')")
	assert.Error(t, err, "test table should have been dropped")

	assert.Error(t, manager.Rollback(ctx, db), "nothing left to roll back")
}

func TestApplyStopsAtFailure(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	manager := NewManager(
		exampleMigration,
		Migration{Version: 2, Description: "broken", Up: "CREATE TABLE (", Down: ""},
	)
	version, err := manager.Apply(ctx, db)
	assert.Error(t, err)
	assert.Equal(t, 1, version)

	stored, err := Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, stored, "failed migration must not be recorded")
}

func TestMigrationOrdering(t *testing.T) {
	manager := NewManager()
	manager.Register(Migration{Version: 3, Description: "Third"})
	manager.Register(Migration{Version: 1, Description: "First"})
	manager.Register(Migration{Version: 2, Description: "Second"})

	manager.sortMigrations()

	require.Len(t, manager.migrations, 3)
	for i, m := range manager.migrations {
		assert.Equal(t, i+1, m.Version)
	}
}
