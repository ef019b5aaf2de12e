// Package output owns the connection to the audio output device and the
// stream currently attached to it.
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/remu"
)

// Device is a platform output: it renders the streamers handed to Play,
// mixing them together, and exposes the lock that guards streamer state
// against the render callback.
type Device interface {
	Open(rate beep.SampleRate, buffer time.Duration) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	SampleRate() beep.SampleRate
	Close() error
}

// The beep speaker is process-wide, so every speakerDevice shares it.
var shared struct {
	mu   sync.Mutex
	refs int
	rate beep.SampleRate
}

// speakerDevice renders through the default system output via beep's speaker.
type speakerDevice struct {
	open bool
}

// NewSpeaker returns a Device backed by the system's default output.
func NewSpeaker() Device {
	return &speakerDevice{}
}

func (d *speakerDevice) Open(rate beep.SampleRate, buffer time.Duration) error {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if d.open {
		return nil
	}
	if shared.refs == 0 {
		if err := speaker.Init(rate, rate.N(buffer)); err != nil {
			return remu.NewError(remu.OpConnect, "", remu.ErrDevice, err)
		}
		shared.rate = rate
	} else if shared.rate != rate {
		return remu.NewError(remu.OpConnect, "", remu.ErrDevice,
			fmt.Errorf("device already claimed at %d Hz", shared.rate))
	}
	shared.refs++
	d.open = true
	return nil
}

func (d *speakerDevice) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (d *speakerDevice) Lock() { speaker.Lock() }

func (d *speakerDevice) Unlock() { speaker.Unlock() }

func (d *speakerDevice) SampleRate() beep.SampleRate {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	return shared.rate
}

func (d *speakerDevice) Close() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if !d.open {
		return nil
	}
	d.open = false
	shared.refs--
	if shared.refs == 0 {
		speaker.Clear()
		speaker.Close()
	}
	return nil
}

const nullChunk = 512

// NullDevice is a headless output. It mixes like a real device but discards
// the rendered samples. Rendering happens either on a real-time clock
// (NewNullDevice(true)) or only when Pull is called, which makes playback
// deterministic in tests.
type NullDevice struct {
	mu       sync.Mutex
	mixer    beep.Mixer
	rate     beep.SampleRate
	realtime bool
	buf      [][2]float64

	stop chan struct{}
	done chan struct{}
}

// NewNullDevice creates a headless device.
func NewNullDevice(realtime bool) *NullDevice {
	return &NullDevice{
		realtime: realtime,
		buf:      make([][2]float64, nullChunk),
	}
}

func (d *NullDevice) Open(rate beep.SampleRate, buffer time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rate != 0 {
		return remu.NewError(remu.OpConnect, "", remu.ErrDevice, fmt.Errorf("null device already open"))
	}
	d.rate = rate
	if d.realtime {
		if buffer <= 0 {
			buffer = 100 * time.Millisecond
		}
		d.stop = make(chan struct{})
		d.done = make(chan struct{})
		go d.clock(buffer)
	}
	return nil
}

func (d *NullDevice) clock(buffer time.Duration) {
	defer close(d.done)
	ticker := time.NewTicker(buffer)
	defer ticker.Stop()
	n := d.rate.N(buffer)
	for {
		select {
		case <-ticker.C:
			d.Pull(n)
		case <-d.stop:
			return
		}
	}
}

// Pull renders n samples at the device rate and returns how many were rendered.
func (d *NullDevice) Pull(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	rendered := 0
	for rendered < n {
		chunk := min(n-rendered, len(d.buf))
		d.mixer.Stream(d.buf[:chunk])
		rendered += chunk
	}
	return rendered
}

// PullDuration renders d worth of samples at the device rate.
func (d *NullDevice) PullDuration(dur time.Duration) int {
	return d.Pull(d.SampleRate().N(dur))
}

func (d *NullDevice) Play(s beep.Streamer) {
	d.mu.Lock()
	d.mixer.Add(s)
	d.mu.Unlock()
}

func (d *NullDevice) Lock() { d.mu.Lock() }

func (d *NullDevice) Unlock() { d.mu.Unlock() }

// Streaming reports how many streamers the device is currently mixing.
func (d *NullDevice) Streaming() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mixer.Len()
}

func (d *NullDevice) SampleRate() beep.SampleRate {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rate
}

func (d *NullDevice) Close() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		<-d.done
	}
	return nil
}
