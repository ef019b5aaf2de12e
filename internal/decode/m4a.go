package decode

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

var errM4ACodec = errors.New("m4a: unsupported codec")

// frameDecoder turns one MP4 sample into stereo frames.
type frameDecoder interface {
	decode(sample []byte) ([][2]float64, error)
	close()
}

type aacFrames struct {
	dec *faad2.Decoder
	ch  int
}

func (a *aacFrames) decode(sample []byte) ([][2]float64, error) {
	pcm, err := a.dec.Decode(context.Background(), sample)
	if err != nil {
		return nil, err
	}
	return stereoFromInt16(pcm, a.ch), nil
}

func (a *aacFrames) close() { a.dec.Close(context.Background()) }

type alacFrames struct {
	dec   *alac.Alac
	width int
	ch    int
}

func (a *alacFrames) decode(sample []byte) ([][2]float64, error) {
	return stereoFromLE(a.dec.Decode(sample), a.width, a.ch), nil
}

func (a *alacFrames) close() {}

// m4aStream walks the container's sample table, decoding one MP4 sample
// (an AAC or ALAC frame) at a time.
type m4aStream struct {
	box    *m4a.Reader
	frames frameDecoder
	closer io.Closer
	rate   float64

	idx    int
	length int
	pcm    [][2]float64
	pcmPos int
	err    error
}

func openM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, Codec, error) {
	box, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}
	rate := int(box.SampleRate())
	ch := int(box.Channels())
	size := int(box.SampleSize())

	var (
		frames frameDecoder
		codec  Codec
	)
	precision := 2
	switch box.Codec() {
	case m4a.CodecAAC:
		dec, err := faad2.NewDecoder(context.Background())
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		if err := dec.Init(context.Background(), box.CodecConfig()); err != nil {
			dec.Close(context.Background())
			return nil, beep.Format{}, "", err
		}
		frames, codec = &aacFrames{dec: dec, ch: ch}, CodecAAC
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  rate,
			SampleSize:  size,
			NumChannels: ch,
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, "", err
		}
		frames, codec = &alacFrames{dec: dec, width: size / 8, ch: ch}, CodecALAC
		if size == 24 {
			precision = 3
		}
	default:
		return nil, beep.Format{}, "", errM4ACodec
	}

	s := &m4aStream{
		box:    box,
		frames: frames,
		closer: rc,
		rate:   float64(rate),
		length: int(box.Duration().Seconds() * float64(rate)),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   precision,
	}
	return s, format, codec, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if s.pcmPos < len(s.pcm) {
			c := copy(samples[n:], s.pcm[s.pcmPos:])
			n += c
			s.pcmPos += c
			continue
		}
		if s.idx >= s.box.SampleCount() {
			return n, n > 0
		}
		data, err := s.box.ReadSample(s.idx)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.idx++
		pcm, err := s.frames.decode(data)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.pcm, s.pcmPos = pcm, 0
	}
	return n, true
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.length }

func (s *m4aStream) Position() int {
	pos := int(s.box.SampleTime(s.idx).Seconds()*s.rate) - (len(s.pcm) - s.pcmPos)
	return max(pos, 0)
}

// Seek moves to the MP4 sample containing p; accuracy is one codec frame.
func (s *m4aStream) Seek(p int) error {
	p = min(max(p, 0), s.length)
	s.idx = s.box.SeekToTime(time.Duration(float64(p) / s.rate * float64(time.Second)))
	s.pcm, s.pcmPos = nil, 0
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	s.frames.close()
	return s.closer.Close()
}
