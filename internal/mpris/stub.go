//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu/player"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(player.Interface, zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
