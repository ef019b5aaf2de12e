package state

import "sync"

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu     sync.Mutex
	volume *VolumeState
	saves  int
	closed bool
}

// NewMock creates a new mock settings store for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetVolume() (VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volume == nil {
		return DefaultVolume, nil
	}
	return *m.volume, nil
}

func (m *Mock) SaveVolume(v VolumeState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = &v
	m.saves++
	return nil
}

func (m *Mock) QueueVolume(v VolumeState) {
	_ = m.SaveVolume(v)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Saves returns how many times the volume was written.
func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Interface = (*Mock)(nil)
