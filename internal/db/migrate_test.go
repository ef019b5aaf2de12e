package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

var testMigrations = []string{
	`CREATE TABLE settings (id INTEGER PRIMARY KEY, volume REAL NOT NULL)`,
	`ALTER TABLE settings ADD COLUMN muted INTEGER NOT NULL DEFAULT 0`,
}

func TestMigrate_Fresh(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, testMigrations))

	v, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = db.Exec(`INSERT INTO settings (id, volume, muted) VALUES (1, 0.5, 1)`)
	assert.NoError(t, err)
}

func TestMigrate_Incremental(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, testMigrations[:1]))
	_, err := db.Exec(`INSERT INTO settings (id, volume) VALUES (1, 0.3)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db, testMigrations))

	var volume float64
	var muted bool
	require.NoError(t, db.QueryRow(`SELECT volume, muted FROM settings WHERE id = 1`).Scan(&volume, &muted))
	assert.InDelta(t, 0.3, volume, 1e-9)
	assert.False(t, muted)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, testMigrations))
	require.NoError(t, Migrate(db, testMigrations))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	db := openMemory(t)

	err := Migrate(db, []string{
		testMigrations[0],
		`ALTER TABLE missing ADD COLUMN x INTEGER`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate to version 2")

	v, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestMigrate_NewerDatabase(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, Migrate(db, testMigrations))
	err := Migrate(db, testMigrations[:1])
	assert.ErrorContains(t, err, "newer than supported")
}
