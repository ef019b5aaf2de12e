package output

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/llehouerou/remu"
)

// Options configures a sink.
type Options struct {
	SampleRate      beep.SampleRate
	Buffer          time.Duration
	ResampleQuality int
	Volume          float64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		SampleRate:      44100,
		Buffer:          100 * time.Millisecond,
		ResampleQuality: 4,
		Volume:          1,
	}
}

// Sink owns a device connection and the stream attached to it.
//
// Volume and mute live on the sink, not on the attached stream, so they
// survive attach and stop. Every method takes the device lock for a bounded,
// I/O-free critical section.
type Sink struct {
	dev     Device
	rate    beep.SampleRate
	quality int

	line   *line
	volume *effects.Volume
	ctrl   *beep.Ctrl

	track  *track
	src    beep.StreamSeeker
	format beep.Format
	clock  Clock

	level float64
	muted bool

	onEnd func(beep.StreamSeeker)
}

// Connect opens dev and registers the sink's output line with it.
// It fails with remu.ErrDevice when the device cannot be opened.
func Connect(dev Device, opts Options) (*Sink, error) {
	def := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.Buffer <= 0 {
		opts.Buffer = def.Buffer
	}
	if opts.ResampleQuality <= 0 {
		opts.ResampleQuality = def.ResampleQuality
	}

	if err := dev.Open(opts.SampleRate, opts.Buffer); err != nil {
		return nil, err
	}

	s := &Sink{
		dev:     dev,
		rate:    opts.SampleRate,
		quality: opts.ResampleQuality,
		ctrl:    &beep.Ctrl{Paused: true},
	}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.line = &line{}
	s.applyVolume(max(opts.Volume, 0))

	dev.Play(s.line)
	return s, nil
}

// OnEnd registers fn to run when the attached stream is exhausted. fn
// receives the exhausted stream and runs on its own goroutine, never on the
// render callback.
func (s *Sink) OnEnd(fn func(beep.StreamSeeker)) {
	s.dev.Lock()
	s.onEnd = fn
	s.dev.Unlock()
}

// Attach binds src to the device, replacing and discarding any previous
// stream. The new stream starts paused at its current position.
func (s *Sink) Attach(src beep.StreamSeeker, format beep.Format) {
	s.dev.Lock()
	defer s.dev.Unlock()

	s.src = src
	s.format = format
	s.clock = NewClock(format.SampleRate, src.Position())
	s.track = newTrack(src, &s.clock, s.finished)
	s.rewire()
	s.ctrl.Paused = true
	s.line.chain = s.volume
}

// rewire puts a fresh chain for the attached track under the control. The
// resampler reads ahead and latches the end of its input, so it must not
// survive a seek.
func (s *Sink) rewire() {
	t := s.track
	t.in.drained = false
	t.finished = false
	t.out = t.in
	if s.format.SampleRate != s.rate {
		t.out = beep.Resample(s.quality, s.format.SampleRate, s.rate, t.in)
	}
	s.ctrl.Streamer = t
}

// finished runs on the render callback with the device lock held.
func (s *Sink) finished(t *track) {
	go func() {
		s.dev.Lock()
		current := s.track == t
		fn := s.onEnd
		s.dev.Unlock()
		if current && fn != nil {
			fn(t.src)
		}
	}()
}

// Play resumes the attached stream. It is a no-op when nothing is attached.
func (s *Sink) Play() bool {
	s.dev.Lock()
	defer s.dev.Unlock()
	if s.track == nil {
		return false
	}
	s.ctrl.Paused = false
	return true
}

// Pause suspends the attached stream, keeping its position.
func (s *Sink) Pause() {
	s.dev.Lock()
	s.ctrl.Paused = true
	s.dev.Unlock()
}

// Exhausted reports whether the attached stream has played to its end and
// has not been sought since.
func (s *Sink) Exhausted() bool {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.track != nil && s.track.finished
}

// Stop halts playback and detaches the stream. A later Play is a no-op
// until a new stream is attached. Closing the detached source is the
// caller's responsibility.
func (s *Sink) Stop() {
	s.dev.Lock()
	defer s.dev.Unlock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	s.line.chain = nil
	s.track = nil
	s.src = nil
	s.clock = Clock{}
}

// Seek moves the attached stream to pos, clamped to [0, length].
// It returns the position actually reached.
func (s *Sink) Seek(pos time.Duration) (time.Duration, error) {
	s.dev.Lock()
	defer s.dev.Unlock()

	if s.track == nil {
		return 0, remu.NewError(remu.OpSeek, "", remu.ErrInvalidSeek, nil)
	}
	n := s.format.SampleRate.N(max(pos, 0))
	if length := s.src.Len(); length > 0 && (n > length || pos >= s.format.SampleRate.D(length)) {
		n = length
	}
	if err := s.src.Seek(n); err != nil {
		return s.clock.Elapsed(), remu.NewError(remu.OpSeek, "", remu.ErrInvalidSeek, err)
	}
	s.clock.Reset(n)
	s.rewire()
	return s.clock.Elapsed(), nil
}

// Position returns the elapsed render time of the attached stream, or zero.
func (s *Sink) Position() time.Duration {
	s.dev.Lock()
	defer s.dev.Unlock()
	if s.track == nil {
		return 0
	}
	return s.clock.Elapsed()
}

// Err returns the attached stream's decode error, if any.
func (s *Sink) Err() error {
	s.dev.Lock()
	defer s.dev.Unlock()
	if s.track == nil {
		return nil
	}
	return s.track.Err()
}

// SetVolume sets the linear amplitude scale. Negative levels are stored as 0;
// there is no upper bound.
func (s *Sink) SetVolume(level float64) {
	s.dev.Lock()
	s.applyVolume(max(level, 0))
	s.dev.Unlock()
}

// Volume returns the linear amplitude scale.
func (s *Sink) Volume() float64 {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.level
}

// SetMuted silences output without forgetting the volume.
func (s *Sink) SetMuted(muted bool) {
	s.dev.Lock()
	s.muted = muted
	s.applyVolume(s.level)
	s.dev.Unlock()
}

// Muted reports whether output is muted.
func (s *Sink) Muted() bool {
	s.dev.Lock()
	defer s.dev.Unlock()
	return s.muted
}

func (s *Sink) applyVolume(level float64) {
	s.level = level
	s.volume.Silent = s.muted || level <= 0
	if level > 0 {
		s.volume.Volume = levelToVolume(level)
	}
}

// levelToVolume converts a linear level to beep's base-2 exponent:
// 1.0 -> 0, 0.5 -> -1, 2.0 -> +1.
func levelToVolume(level float64) float64 {
	return math.Log2(level)
}

// Close detaches the stream, drops the sink from the device mix and
// releases the device.
func (s *Sink) Close() error {
	s.dev.Lock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	s.line.chain = nil
	s.line.closed = true
	s.track = nil
	s.src = nil
	s.onEnd = nil
	s.dev.Unlock()
	return s.dev.Close()
}
