// Package player is an embeddable audio playback engine with media-element
// semantics: load a file or URL, control transport, observe lifecycle events.
//
// Control calls are synchronous, safe for concurrent use and never block on
// I/O. Loads run in the background and return a Task. Events reach the
// registered observer asynchronously, in causal order, on a goroutine owned
// by the player.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu"
	"github.com/llehouerou/remu/internal/bus"
	"github.com/llehouerou/remu/internal/errmsg"
	"github.com/llehouerou/remu/internal/loader"
	"github.com/llehouerou/remu/internal/output"
)

// Player owns one output connection and at most one source.
type Player struct {
	log    zerolog.Logger
	bus    *bus.Bus
	sink   *output.Sink
	loader *loader.Loader

	mu       sync.Mutex
	state    State
	src      *loader.Source
	duration time.Duration
	known    bool // duration is known
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
	tasks    sync.WaitGroup
}

// New connects to the output device and returns an idle Player.
// It fails with an error of kind remu.ErrDevice when no device is available.
func New(opts ...Option) (*Player, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		o.device = output.NewSpeaker()
	}

	sink, err := output.Connect(o.device, o.sink)
	if err != nil {
		return nil, err
	}

	p := &Player{
		log:    o.log,
		bus:    bus.New(o.log),
		sink:   sink,
		loader: loader.New(o.loader),
	}
	sink.OnEnd(p.handleEnd)
	p.log.Debug().Int("sample_rate", int(o.sink.SampleRate)).Msg("player ready")
	return p, nil
}

// RegisterObserver replaces the event observer. nil unregisters.
// Events emitted while no observer is registered are dropped.
func (p *Player) RegisterObserver(obs remu.Observer) {
	p.bus.Register(obs)
}

// Load routes http:// and https:// sources to LoadURL and anything else to
// LoadFile.
func (p *Player) Load(src string) *Task {
	return p.load(loader.Resolve(src))
}

// LoadFile loads a local file, replacing any current source.
func (p *Player) LoadFile(path string) *Task {
	return p.load(loader.File(path))
}

// LoadURL fetches and loads a remote http or https source, replacing any
// current source.
func (p *Player) LoadURL(url string) *Task {
	return p.load(loader.URL(url))
}

func (p *Player) load(d loader.Descriptor) *Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return resolvedTask(d.Origin, remu.NewError(opFor(d), d.Origin, remu.ErrClosed, nil))
	}

	p.abandonLoad()
	if p.src != nil {
		p.detach()
		p.emit(remu.KindEmptied)
	}

	p.gen++
	gen := p.gen
	log := p.log.With().Uint64("generation", gen).Logger()
	ctx, cancel := context.WithCancel(log.WithContext(context.Background()))
	p.cancel = cancel
	p.state = Loading
	p.emit(remu.KindLoadStart)
	log.Debug().Str("origin", d.Origin).Str("kind", d.Kind.String()).Msg("load started")

	t := newTask(d.Origin)
	p.tasks.Add(1)
	go p.runLoad(ctx, cancel, gen, d, t)
	return t
}

func (p *Player) runLoad(ctx context.Context, cancel context.CancelFunc, gen uint64, d loader.Descriptor, t *Task) {
	defer p.tasks.Done()
	defer cancel()

	_, err := p.loader.Load(ctx, d, func(step loader.Step, src *loader.Source) bool {
		return p.advance(gen, step, src)
	})
	if err == nil {
		t.resolve(nil)
		return
	}

	p.mu.Lock()
	current := gen == p.gen
	if current {
		p.state = Idle
		p.cancel = nil
		p.duration, p.known = 0, false
	}
	if !current || errors.Is(err, remu.ErrAborted) {
		if !errors.Is(err, remu.ErrAborted) {
			err = remu.NewError(opFor(d), d.Origin, remu.ErrAborted, err)
		}
		p.emit(remu.KindAborted)
		zerolog.Ctx(ctx).Debug().Str("origin", d.Origin).Msg("load aborted")
	} else {
		p.bus.Emit(remu.ErrorEvent(errmsg.Describe(err)))
		zerolog.Ctx(ctx).Warn().Err(err).Str("origin", d.Origin).Msg("load failed")
	}
	p.mu.Unlock()
	t.resolve(err)
}

// advance applies a load milestone if gen is still the current load.
func (p *Player) advance(gen uint64, step loader.Step, src *loader.Source) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.closed {
		return false
	}

	switch step {
	case loader.StepMetadata:
		p.emit(remu.KindLoadedMetadata)
		if d, ok := src.Duration(); ok {
			p.duration, p.known = d, true
			p.emit(remu.KindDurationChange)
		}
	case loader.StepData:
		p.emit(remu.KindLoadedData)
	case loader.StepReady:
		p.sink.Attach(src.Stream, src.Format)
		p.src = src
		p.state = Ready
		p.cancel = nil
		p.emit(remu.KindCompleted)
		p.log.Info().
			Uint64("generation", gen).
			Str("origin", src.Descriptor.Origin).
			Str("codec", string(src.Codec)).
			Dur("duration", p.duration).
			Msg("source loaded")
	}
	return true
}

// Play starts or resumes playback. From Ended, or when the stream ran out
// before the end was handled, it restarts at the beginning. It is a no-op
// without a playable source.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.state.CanPlay() {
		return
	}
	if p.state == Ended || p.sink.Exhausted() {
		if _, err := p.sink.Seek(0); err != nil {
			p.log.Warn().Err(err).Msg("rewind failed")
			return
		}
		p.emit(remu.KindSeeking, remu.KindSeeked)
	}
	if !p.sink.Play() {
		return
	}
	p.state = Playing
	p.emit(remu.KindPlay, remu.KindPlaying)
}

// Pause suspends playback, keeping the position. It is a no-op unless Playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.state.CanPause() {
		return
	}
	p.sink.Pause()
	p.state = Paused
	p.emit(remu.KindPause)
}

// Toggle pauses while Playing and plays otherwise.
func (p *Player) Toggle() {
	if p.State() == Playing {
		p.Pause()
		return
	}
	p.Play()
}

// Stop releases the current source and returns to Idle. While Loading it
// cancels the load instead.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	switch {
	case p.state == Loading:
		p.abandonLoad()
		p.gen++
		p.state = Idle
		p.duration, p.known = 0, false
	case p.state.HasSource():
		p.detach()
		p.state = Idle
		p.emit(remu.KindEmptied)
	}
}

// Seek moves to pos, clamped to [0, duration]. Reaching the end of a source
// with a known duration ends playback. It fails with remu.ErrInvalidSeek when
// there is no seekable source, leaving everything unchanged.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return remu.NewError(remu.OpSeek, "", remu.ErrClosed, nil)
	}
	if !p.state.CanSeek() {
		return remu.NewError(remu.OpSeek, "", remu.ErrInvalidSeek,
			fmt.Errorf("no seekable source while %s", p.state))
	}

	target := max(pos, 0)
	if p.known {
		target = min(target, p.duration)
	}
	got, err := p.sink.Seek(target)
	if err != nil {
		return err
	}
	p.emit(remu.KindSeeking, remu.KindSeeked)

	switch {
	case p.known && got >= p.duration:
		p.sink.Pause()
		if p.state != Ended {
			p.state = Ended
			p.emit(remu.KindEnded)
		}
	case p.state == Ended:
		p.state = Paused
	}
	return nil
}

// SetVolume sets the linear output level. Negative levels are stored as 0;
// there is no upper bound. A positive level unmutes.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sink.SetVolume(level)
	if level > 0 && p.sink.Muted() {
		p.sink.SetMuted(false)
	}
	p.emit(remu.KindVolumeChange)
}

// Volume returns the linear output level.
func (p *Player) Volume() float64 {
	return p.sink.Volume()
}

// SetMuted silences or restores output without changing the volume.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.sink.Muted() == muted {
		return
	}
	p.sink.SetMuted(muted)
	p.emit(remu.KindVolumeChange)
}

// Muted reports whether output is muted.
func (p *Player) Muted() bool {
	return p.sink.Muted()
}

// State returns the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Paused reports whether playback is not running.
func (p *Player) Paused() bool {
	return p.State() != Playing
}

// Ended reports whether the source played to its end.
func (p *Player) Ended() bool {
	return p.State() == Ended
}

// Position returns the elapsed playback time, zero without a source.
func (p *Player) Position() time.Duration {
	return p.sink.Position()
}

// Duration returns the source's total length, and false while it is unknown.
func (p *Player) Duration() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.known
}

// Close stops playback, cancels any load, releases the output device and
// stops event delivery after draining queued events. It is idempotent.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.abandonLoad()
	p.gen++
	if p.src != nil {
		p.detach()
	}
	p.state = Idle
	p.mu.Unlock()

	p.tasks.Wait()
	err := p.sink.Close()
	p.bus.Close()
	p.log.Debug().Msg("player closed")
	return err
}

// handleEnd runs when the sink exhausts a stream. A seek since then makes
// the notification stale.
func (p *Player) handleEnd(stream beep.StreamSeeker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.src == nil || stream != beep.StreamSeeker(p.src.Stream) {
		return
	}
	if !p.sink.Exhausted() {
		return
	}

	if err := p.sink.Err(); err != nil {
		p.sink.Pause()
		p.state = Error
		e := remu.NewError(remu.OpPlayback, p.src.Descriptor.Origin, remu.ErrDecode, err)
		p.bus.Emit(remu.ErrorEvent(errmsg.Describe(e)))
		p.log.Error().Err(err).Str("origin", p.src.Descriptor.Origin).Msg("playback failed")
		return
	}
	if p.state != Playing && p.state != Paused {
		return
	}
	p.sink.Pause()
	p.state = Ended
	p.emit(remu.KindEnded)
	p.log.Debug().Str("origin", p.src.Descriptor.Origin).Msg("source ended")
}

// abandonLoad cancels the in-flight load, if any. The caller bumps gen so
// the task treats itself as stale.
func (p *Player) abandonLoad() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// detach removes the source from the sink and releases it.
func (p *Player) detach() {
	p.sink.Stop()
	if err := p.src.Close(); err != nil {
		p.log.Warn().Err(err).Str("origin", p.src.Descriptor.Origin).Msg("close source")
	}
	p.src = nil
	p.duration, p.known = 0, false
}

func (p *Player) emit(kinds ...remu.Kind) {
	for _, k := range kinds {
		p.bus.Emit(remu.NewEvent(k))
	}
}

func opFor(d loader.Descriptor) remu.Op {
	if d.Kind == loader.KindURL {
		return remu.OpFetch
	}
	return remu.OpOpenFile
}
