package state

// migrations[i] upgrades the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		volume REAL NOT NULL DEFAULT 1.0,
		muted INTEGER NOT NULL DEFAULT 0
	)`,
	`ALTER TABLE settings ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0`,
}
