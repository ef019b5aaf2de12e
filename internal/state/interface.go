package state

// Interface defines the settings store contract for dependency injection and testing.
type Interface interface {
	GetVolume() (VolumeState, error)
	SaveVolume(v VolumeState) error
	QueueVolume(v VolumeState)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
