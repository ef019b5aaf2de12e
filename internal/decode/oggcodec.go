package decode

import (
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const (
	opusSampleRate = 48000
	// Opus decoders need 80ms of pre-roll to converge after a seek.
	opusPreRoll = 3840
	// Large enough for a Vorbis long block or a 120ms Opus frame, per channel.
	maxFrameSamples = 8192
)

var (
	errUnknownOggCodec   = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errBadOpusHead       = errors.New("opus: invalid OpusHead packet")
	errBadVorbisHeader   = errors.New("vorbis: invalid identification header")
	errVorbisHeadersDue  = errors.New("vorbis: decoder not initialized (headers incomplete)")
	errPCMBufferTooSmall = errors.New("ogg: output buffer too small")
)

// oggCodec decodes the packets of one Ogg logical stream.
type oggCodec interface {
	name() Codec
	sampleRate() int
	channels() int
	// preSkip is the number of leading samples that are encoder delay.
	preSkip() int64
	// preRoll is the number of samples to decode and discard after a seek.
	preRoll() int64
	// headers is the number of header packets including the first one.
	headers() int
	addHeader(packet []byte) error
	decode(packet []byte, pcm []float32) (frames int, err error)
	reset()
}

// detectOggCodec identifies the codec from the first packet of the stream.
func detectOggCodec(first []byte) (oggCodec, error) {
	switch {
	case len(first) >= 8 && string(first[:8]) == "OpusHead":
		return newOpusCodec(first)
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		return newVorbisCodec(first)
	default:
		return nil, errUnknownOggCodec
	}
}

type opusCodec struct {
	dec  *opus.Decoder
	ch   int
	skip int64
}

func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 || head[8] != 1 {
		return nil, errBadOpusHead
	}
	ch := int(head[9])
	if ch == 0 {
		return nil, errBadOpusHead
	}
	dec, err := opus.NewDecoder(opusSampleRate, ch)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		dec:  dec,
		ch:   ch,
		skip: int64(binary.LittleEndian.Uint16(head[10:12])),
	}, nil
}

func (c *opusCodec) name() Codec            { return CodecOpus }
func (c *opusCodec) sampleRate() int        { return opusSampleRate }
func (c *opusCodec) channels() int          { return c.ch }
func (c *opusCodec) preSkip() int64         { return c.skip }
func (c *opusCodec) preRoll() int64         { return opusPreRoll }
func (c *opusCodec) headers() int           { return 2 }
func (c *opusCodec) addHeader([]byte) error { return nil } // OpusTags carries no decoder state

func (c *opusCodec) decode(packet []byte, pcm []float32) (int, error) {
	return c.dec.DecodeFloat32(packet, pcm)
}

// reset is a no-op: the Opus decoder resynchronizes within the pre-roll.
func (c *opusCodec) reset() {}

type vorbisCodec struct {
	dec     *vorbis.Decoder
	ch      int
	rate    int
	pending [][]byte
}

// Identification header: type 0x01, "vorbis", version (0), channels, rate.
func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errBadVorbisHeader
	}
	ch := int(ident[11])
	rate := int(binary.LittleEndian.Uint32(ident[12:16]))
	if ch == 0 || rate == 0 {
		return nil, errBadVorbisHeader
	}
	return &vorbisCodec{
		ch:      ch,
		rate:    rate,
		pending: [][]byte{append([]byte(nil), ident...)},
	}, nil
}

func (c *vorbisCodec) name() Codec     { return CodecVorbis }
func (c *vorbisCodec) sampleRate() int { return c.rate }
func (c *vorbisCodec) channels() int   { return c.ch }
func (c *vorbisCodec) preSkip() int64  { return 0 }
func (c *vorbisCodec) preRoll() int64  { return 0 }
func (c *vorbisCodec) headers() int    { return 3 }

// addHeader collects the comment and setup headers and initializes the
// decoder once all three are present.
func (c *vorbisCodec) addHeader(packet []byte) error {
	c.pending = append(c.pending, append([]byte(nil), packet...))
	if len(c.pending) < 3 {
		return nil
	}
	dec := &vorbis.Decoder{}
	for _, h := range c.pending {
		if err := dec.ReadHeader(h); err != nil {
			return err
		}
	}
	c.dec = dec
	c.pending = nil
	return nil
}

func (c *vorbisCodec) decode(packet []byte, pcm []float32) (int, error) {
	if c.dec == nil {
		return 0, errVorbisHeadersDue
	}
	out, err := c.dec.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(out) {
		return 0, errPCMBufferTooSmall
	}
	return copy(pcm, out) / c.ch, nil
}

func (c *vorbisCodec) reset() {
	if c.dec != nil {
		c.dec.Clear()
	}
}
