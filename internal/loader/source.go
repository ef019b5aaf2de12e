package loader

import (
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/remu/internal/decode"
	"github.com/llehouerou/remu/internal/tags"
)

// Source is a loaded asset, decoded and primed for attachment.
type Source struct {
	ID         uuid.UUID
	Descriptor Descriptor
	Container  decode.Container
	Size       int64
	Tags       *tags.Tag // nil when the asset carries no readable tags

	*decode.Stream
}

// Duration returns the total length, and false when the stream cannot
// report it.
func (s *Source) Duration() (time.Duration, bool) {
	n := s.Len()
	if n <= 0 {
		return 0, false
	}
	return s.Format.SampleRate.D(n), true
}
