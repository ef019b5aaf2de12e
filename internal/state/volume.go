package state

import (
	"database/sql"
	"errors"
	"time"
)

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// DefaultVolume is returned when nothing has been saved yet.
var DefaultVolume = VolumeState{Volume: 1.0}

// GetVolume returns the saved volume state.
func (m *Manager) GetVolume() (VolumeState, error) {
	return getVolume(m.db)
}

// SaveVolume persists the volume state immediately.
func (m *Manager) SaveVolume(v VolumeState) error {
	return saveVolume(m.db, v)
}

func getVolume(db *sql.DB) (VolumeState, error) {
	var v VolumeState

	row := db.QueryRow(`SELECT volume, muted FROM settings WHERE id = 1`)
	err := row.Scan(&v.Volume, &v.Muted)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultVolume, nil
	}
	if err != nil {
		return VolumeState{}, err
	}
	return v, nil
}

func saveVolume(db *sql.DB, v VolumeState) error {
	_, err := db.Exec(`
		INSERT INTO settings (id, volume, muted, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			updated_at = excluded.updated_at
	`, max(v.Volume, 0), v.Muted, time.Now().Unix())
	return err
}
