package output

import "github.com/gopxl/beep/v2"

// reader pulls from the attached source and advances the clock by what it
// consumed. It fills every buffer it is handed: the resampler takes a short
// read as the end of data.
type reader struct {
	src     beep.StreamSeeker
	clock   *Clock
	drained bool
}

func (r *reader) Stream(samples [][2]float64) (int, bool) {
	if r.drained {
		return 0, false
	}
	filled := 0
	for filled < len(samples) {
		n, ok := r.src.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			r.drained = true
			break
		}
	}
	r.clock.Advance(filled)
	if r.drained {
		return filled, filled > 0
	}
	return filled, true
}

func (r *reader) Err() error {
	return r.src.Err()
}

// track is the attached stream as the device sees it: the reader, resampled
// when rates differ. It reports exhaustion exactly once, when the output side
// runs dry.
type track struct {
	src      beep.StreamSeeker
	in       *reader
	out      beep.Streamer
	finished bool
	onFinish func(t *track)
}

func newTrack(src beep.StreamSeeker, clock *Clock, onFinish func(t *track)) *track {
	in := &reader{src: src, clock: clock}
	return &track{src: src, in: in, out: in, onFinish: onFinish}
}

func (t *track) Stream(samples [][2]float64) (int, bool) {
	if t.finished {
		return 0, false
	}
	n, ok := t.out.Stream(samples)
	if ok && n == len(samples) {
		return n, true
	}
	t.finished = true
	if t.onFinish != nil {
		t.onFinish(t)
	}
	return n, n > 0
}

func (t *track) Err() error {
	return t.src.Err()
}

// line is the sink's permanent entry in the device mix. It never drains
// while the sink is open, so attaching a new source never has to re-register
// with the device. Once closed it drains and the device drops it.
type line struct {
	chain  beep.Streamer
	closed bool
}

func (l *line) Stream(samples [][2]float64) (int, bool) {
	if l.closed {
		return 0, false
	}
	n := 0
	if l.chain != nil {
		n, _ = l.chain.Stream(samples)
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (l *line) Err() error {
	return nil
}
