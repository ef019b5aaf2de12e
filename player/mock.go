package player

import (
	"sync"
	"time"

	"github.com/llehouerou/remu"
)

// Mock is a test double for Player. Loads resolve immediately; events are
// delivered synchronously to the registered observer, which must not call
// back into the Mock.
type Mock struct {
	mu        sync.Mutex
	obs       remu.Observer
	state     State
	volume    float64
	muted     bool
	position  time.Duration
	duration  time.Duration
	source    SourceInfo
	loadErr   error
	loadCalls []string
	seekCalls []time.Duration
	closed    bool
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{state: Idle, volume: DefaultVolume}
}

// SetLoadError makes subsequent loads fail with err.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// SetDuration sets the duration reported after the next successful load.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

// SetPosition sets the reported position.
func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

// LoadCalls returns the origins passed to the Load methods.
func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

// SeekCalls returns the positions passed to Seek.
func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// Finish simulates the source playing to its end.
func (m *Mock) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Playing {
		return
	}
	m.state = Ended
	m.position = m.duration
	m.emit(remu.KindEnded)
}

func (m *Mock) emit(kinds ...remu.Kind) {
	if m.obs == nil {
		return
	}
	for _, k := range kinds {
		m.obs(remu.NewEvent(k))
	}
}

func (m *Mock) RegisterObserver(obs remu.Observer) {
	m.mu.Lock()
	m.obs = obs
	m.mu.Unlock()
}

func (m *Mock) Load(src string) *Task { return m.load(src) }

func (m *Mock) LoadFile(path string) *Task { return m.load(path) }

func (m *Mock) LoadURL(url string) *Task { return m.load(url) }

func (m *Mock) load(origin string) *Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, origin)
	if m.closed {
		return resolvedTask(origin, remu.ErrClosed)
	}
	if m.state.HasSource() {
		m.emit(remu.KindEmptied)
	}
	m.emit(remu.KindLoadStart)
	if m.loadErr != nil {
		m.state = Idle
		m.source = SourceInfo{}
		if m.obs != nil {
			m.obs(remu.ErrorEvent(m.loadErr.Error()))
		}
		return resolvedTask(origin, m.loadErr)
	}
	m.state = Ready
	m.position = 0
	m.source = SourceInfo{Origin: origin, Duration: m.duration, Known: m.duration > 0}
	m.emit(remu.KindLoadedMetadata, remu.KindDurationChange, remu.KindLoadedData, remu.KindCompleted)
	return resolvedTask(origin, nil)
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.CanPlay() {
		return
	}
	if m.state == Ended {
		m.position = 0
	}
	m.state = Playing
	m.emit(remu.KindPlay, remu.KindPlaying)
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Playing {
		return
	}
	m.state = Paused
	m.emit(remu.KindPause)
}

func (m *Mock) Toggle() {
	if m.State() == Playing {
		m.Pause()
		return
	}
	m.Play()
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.HasSource() {
		m.state = Idle
		return
	}
	m.state = Idle
	m.position = 0
	m.source = SourceInfo{}
	m.emit(remu.KindEmptied)
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	if !m.state.CanSeek() {
		return remu.ErrInvalidSeek
	}
	m.position = min(max(pos, 0), m.duration)
	m.emit(remu.KindSeeking, remu.KindSeeked)
	return nil
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = max(level, 0)
	if level > 0 {
		m.muted = false
	}
	m.emit(remu.KindVolumeChange)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted == muted {
		return
	}
	m.muted = muted
	m.emit(remu.KindVolumeChange)
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Paused() bool { return m.State() != Playing }

func (m *Mock) Ended() bool { return m.State() == Ended }

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.HasSource() {
		return 0, false
	}
	return m.duration, m.duration > 0
}

func (m *Mock) Source() (SourceInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source, m.state.HasSource()
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.state = Idle
	return nil
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
