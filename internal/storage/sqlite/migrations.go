package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
// Prices are stored as decimal strings so the ledger keeps exact values;
// REAL would reintroduce binary rounding.
const schema = `
CREATE TABLE IF NOT EXISTS events (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS goods (
    id TEXT PRIMARY KEY,
    event_name TEXT NOT NULL,
    label TEXT NOT NULL,
    price TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (event_name) REFERENCES events(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS good_payers (
    good_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (good_id, name),
    FOREIGN KEY (good_id) REFERENCES goods(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_goods_event_name ON goods(event_name);
CREATE INDEX IF NOT EXISTS idx_good_payers_good_id ON good_payers(good_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
