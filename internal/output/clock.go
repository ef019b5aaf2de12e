package output

import (
	"time"

	"github.com/gopxl/beep/v2"
)

// Clock tracks elapsed playback time from the number of source samples the
// output has consumed. It is not safe for concurrent use; the sink guards it
// with the device lock.
type Clock struct {
	rate     beep.SampleRate
	consumed int
}

// NewClock returns a clock for a source sampled at rate, starting at sample pos.
func NewClock(rate beep.SampleRate, pos int) Clock {
	return Clock{rate: rate, consumed: max(pos, 0)}
}

// Advance records n more consumed samples.
func (c *Clock) Advance(n int) {
	c.consumed += n
}

// Reset moves the clock to sample pos, as after a seek.
func (c *Clock) Reset(pos int) {
	c.consumed = max(pos, 0)
}

// Elapsed returns the consumed sample count as a duration.
func (c Clock) Elapsed() time.Duration {
	if c.rate == 0 {
		return 0
	}
	return c.rate.D(c.consumed)
}
