package postgres

const schema = `
-- Flat key-value table; values are JSON documents
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_kv_key_prefix ON kv (key text_pattern_ops);
`
