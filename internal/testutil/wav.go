// Package testutil builds audio fixtures for tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Tone describes a 16-bit PCM sine wave.
type Tone struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
	Frequency  float64
}

// DefaultTone is a 440 Hz stereo tone at 8 kHz, small enough for fast tests.
func DefaultTone(d time.Duration) Tone {
	return Tone{SampleRate: 8000, Channels: 2, Duration: d, Frequency: 440}
}

// Frames returns the number of sample frames in the tone.
func (tn Tone) Frames() int {
	return int(tn.Duration.Seconds() * float64(tn.SampleRate))
}

// WriteWAV encodes tone to dir/name and returns the file path.
func WriteWAV(tb testing.TB, dir, name string, tn Tone) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, tn.SampleRate, 16, tn.Channels, 1)
	frames := tn.Frames()
	data := make([]int, frames*tn.Channels)
	for i := range frames {
		v := int(math.Sin(2*math.Pi*tn.Frequency*float64(i)/float64(tn.SampleRate)) * 0.5 * math.MaxInt16)
		for c := range tn.Channels {
			data[i*tn.Channels+c] = v
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: tn.Channels, SampleRate: tn.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("finalize wav: %v", err)
	}
	return path
}

// WAVBytes encodes tone and returns the file contents.
func WAVBytes(tb testing.TB, tn Tone) []byte {
	tb.Helper()
	path := WriteWAV(tb, tb.TempDir(), "tone.wav", tn)
	b, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read wav: %v", err)
	}
	return b
}
