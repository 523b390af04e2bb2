package sqlite

import "github.com/caloriepad/caloriepad/internal/storage/migrations"

const schema = `
-- Flat key-value table; values are JSON documents
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Storage metadata (project name)
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// schemaMigrations are applied in order after the base schema
var schemaMigrations = []migrations.Migration{
	{
		Version:     1,
		Description: "Index kv by update time",
		Up:          `CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at)`,
		Down:        `DROP INDEX IF EXISTS idx_kv_updated_at`,
	},
	{
		Version:     2,
		Description: "Drop empty legacy food database rows",
		Up:          `DELETE FROM kv WHERE key = '@caloriepad/food_database' AND value IN ('[]', 'null')`,
		Down:        `SELECT 1`,
	},
}
