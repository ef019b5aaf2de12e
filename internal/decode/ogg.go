package decode

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

var errOggEmpty = errors.New("ogg: stream has no packets")

// oggStream decodes an Ogg Vorbis or Ogg Opus stream. Positions count
// output samples from the first sample after the codec's pre-skip.
type oggStream struct {
	ogg    *oggReader
	codec  oggCodec
	closer io.Closer

	packets [][]byte
	buf     []float32
	pcm     []float32
	pcmPos  int

	pos    int64 // next sample handed to the caller
	skip   int64 // decoded samples still to discard before pos
	length int64
	err    error
}

func openOgg(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, Codec, error) {
	o := newOggReader(rc)
	page, err := o.readPage()
	if err != nil {
		return nil, beep.Format{}, "", err
	}
	if len(page.packets) == 0 {
		return nil, beep.Format{}, "", errOggEmpty
	}
	codec, err := detectOggCodec(page.packets[0])
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	// Header packets always end on a page boundary.
	pending := page.packets[1:]
	for seen := 1; seen < codec.headers(); seen++ {
		for len(pending) == 0 {
			if page, err = o.readPage(); err != nil {
				return nil, beep.Format{}, "", err
			}
			pending = page.packets
		}
		if err := codec.addHeader(pending[0]); err != nil {
			return nil, beep.Format{}, "", err
		}
		pending = pending[1:]
	}
	if err := o.markDataStart(); err != nil {
		return nil, beep.Format{}, "", err
	}

	last, err := o.lastGranule()
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	ch := codec.channels()
	s := &oggStream{
		ogg:    o,
		codec:  codec,
		closer: rc,
		buf:    make([]float32, maxFrameSamples*ch),
		skip:   codec.preSkip(),
		length: max(last-codec.preSkip(), 0),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.sampleRate()),
		NumChannels: min(ch, 2),
		Precision:   2,
	}
	return s, format, codec.name(), nil
}

func (s *oggStream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}
	ch := s.codec.channels()
	for n < len(samples) {
		if s.pcmPos < len(s.pcm) {
			avail := int64((len(s.pcm) - s.pcmPos) / ch)
			if s.skip > 0 {
				drop := min(avail, s.skip)
				s.pcmPos += int(drop) * ch
				s.skip -= drop
				continue
			}
			take := min(avail, int64(len(samples)-n), s.length-s.pos)
			if take <= 0 {
				return n, n > 0
			}
			frame := s.pcmPos / ch
			for i := range int(take) {
				samples[n+i] = stereoFromFloat32(s.pcm, frame+i, ch)
			}
			n += int(take)
			s.pcmPos += int(take) * ch
			s.pos += take
			continue
		}
		if s.pos >= s.length {
			return n, n > 0
		}
		pkt, err := s.nextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			return n, n > 0
		}
		frames, err := s.codec.decode(pkt, s.buf)
		if err != nil {
			// A corrupt packet costs its samples, not the stream.
			continue
		}
		s.pcm = s.buf[:frames*ch]
		s.pcmPos = 0
	}
	return n, true
}

func (s *oggStream) nextPacket() ([]byte, error) {
	for len(s.packets) == 0 {
		page, err := s.ogg.readPage()
		if err != nil {
			return nil, err
		}
		s.packets = page.packets
	}
	pkt := s.packets[0]
	s.packets = s.packets[1:]
	return pkt, nil
}

func (s *oggStream) Err() error { return s.err }

func (s *oggStream) Len() int { return int(s.length) }

func (s *oggStream) Position() int { return int(s.pos) }

// Seek lands on the page holding the target (less the codec pre-roll) and
// decodes forward, discarding samples up to p.
func (s *oggStream) Seek(p int) error {
	target := min(max(int64(p), 0), s.length)
	granule := target + s.codec.preSkip()
	start, err := s.ogg.seekGranule(max(granule-s.codec.preRoll(), 0))
	if err != nil {
		return err
	}
	s.codec.reset()
	s.packets = nil
	s.pcm = nil
	s.pcmPos = 0
	s.pos = target
	s.skip = max(granule-start, 0)
	s.err = nil
	return nil
}

func (s *oggStream) Close() error {
	return s.closer.Close()
}
