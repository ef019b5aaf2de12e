// Package state persists player settings across runs in a SQLite database.
package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/remu/internal/db"
)

const saveDebounce = 500 * time.Millisecond

// Manager is the SQLite-backed settings store.
type Manager struct {
	db *sql.DB

	mu      sync.Mutex
	timer   *time.Timer
	pending *VolumeState
}

// Open opens the settings database at path, creating the file, its
// directory, and the schema as needed.
func Open(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; the debounce timer and the caller share it
	conn.SetMaxOpenConns(1)

	if err := db.Migrate(conn, migrations); err != nil {
		conn.Close()
		return nil, err
	}
	return &Manager{db: conn}, nil
}

// DB exposes the underlying connection.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// QueueVolume saves v once no newer value arrives for saveDebounce, so a
// burst of volume key presses costs one write. Close flushes it.
func (m *Manager) QueueVolume(v VolumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = &v
	if m.timer == nil {
		m.timer = time.AfterFunc(saveDebounce, func() { _ = m.flush() })
		return
	}
	m.timer.Reset(saveDebounce)
}

// flush writes the queued value, if any.
func (m *Manager) flush() error {
	m.mu.Lock()
	v := m.pending
	m.pending = nil
	m.mu.Unlock()

	if v == nil {
		return nil
	}
	return saveVolume(m.db, *v)
}

// Close writes any queued value and closes the database.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()

	return errors.Join(m.flush(), m.db.Close())
}
