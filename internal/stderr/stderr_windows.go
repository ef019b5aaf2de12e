//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio libraries don't produce the same stderr noise as ALSA.
package stderr

import "github.com/rs/zerolog"

// Capture is a no-op on Windows.
type Capture struct{}

// Start is a no-op on Windows.
func Start(zerolog.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// Stop is a no-op on Windows.
func (*Capture) Stop() {}
