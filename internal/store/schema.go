package store

const schema = `
CREATE TABLE IF NOT EXISTS modules (
    name    TEXT PRIMARY KEY,
    ports   TEXT NOT NULL,  -- JSON array of port names
    signals TEXT NOT NULL   -- JSON array of signal names
);

CREATE TABLE IF NOT EXISTS connections (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_module TEXT NOT NULL,
    child_module  TEXT NOT NULL,
    instance      TEXT NOT NULL,
    child_port    TEXT NOT NULL,
    parent_signal TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS flattened (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    from_module      TEXT NOT NULL,
    from_signal_expr TEXT NOT NULL,
    to_module        TEXT NOT NULL,
    to_signal        TEXT NOT NULL,
    via_instance     TEXT NOT NULL,
    via_module       TEXT NOT NULL,
    inner_expr       TEXT NOT NULL
);

-- Structural-defect records, stored as kind + JSON payload so new defect
-- kinds never need a schema migration.
CREATE TABLE IF NOT EXISTS issues (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    kind    TEXT NOT NULL,
    payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_connections_parent ON connections(parent_module);
CREATE INDEX IF NOT EXISTS idx_connections_child  ON connections(child_module);
`
