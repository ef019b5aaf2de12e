package player

import (
	"time"

	"github.com/llehouerou/remu"
)

// Interface is the player contract, for dependency injection and testing.
type Interface interface {
	RegisterObserver(obs remu.Observer)
	Load(src string) *Task
	LoadFile(path string) *Task
	LoadURL(url string) *Task
	Play()
	Pause()
	Toggle()
	Stop()
	Seek(pos time.Duration) error
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	State() State
	Paused() bool
	Ended() bool
	Position() time.Duration
	Duration() (time.Duration, bool)
	Source() (SourceInfo, bool)
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
