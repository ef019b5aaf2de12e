package decode

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	beepmp3 "github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// Codec names the compressed audio format inside a container.
type Codec string

const (
	CodecPCM    Codec = "PCM"
	CodecFLAC   Codec = "FLAC"
	CodecMP3    Codec = "MP3"
	CodecVorbis Codec = "Vorbis"
	CodecOpus   Codec = "Opus"
	CodecAAC    Codec = "AAC"
	CodecALAC   Codec = "ALAC"
)

// Stream is a decoded, seekable audio stream with its native format.
type Stream struct {
	beep.StreamSeekCloser
	Format beep.Format
	Codec  Codec
}

// Open decodes rc as the given container. On success the returned stream
// owns rc; on failure rc is left open for the caller to close.
func Open(rc io.ReadSeekCloser, c Container) (*Stream, error) {
	var (
		s   beep.StreamSeekCloser
		f   beep.Format
		cd  Codec
		err error
	)
	switch c {
	case WAV:
		s, f, err = wav.Decode(rc)
		cd = CodecPCM
	case FLAC:
		if err = skipID3v2(rc); err != nil {
			break
		}
		s, f, err = flac.Decode(rc)
		cd = CodecFLAC
	case MP3:
		s, f, err = openMP3(rc)
		cd = CodecMP3
	case Ogg:
		s, f, cd, err = openOgg(rc)
	case M4A:
		s, f, cd, err = openM4A(rc)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if f.SampleRate <= 0 {
		return nil, fmt.Errorf("%s: invalid sample rate %d", c, f.SampleRate)
	}
	return &Stream{StreamSeekCloser: s, Format: f, Codec: cd}, nil
}

// openMP3 prefers go-mp3 for its sample-accurate seeking and falls back to
// beep's decoder for streams it rejects.
func openMP3(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	if err := skipID3v2(rc); err != nil {
		return nil, beep.Format{}, err
	}
	s, f, err := newMP3Stream(rc)
	if err == nil {
		return s, f, nil
	}
	if _, serr := rc.Seek(0, io.SeekStart); serr != nil {
		return nil, beep.Format{}, err
	}
	return beepmp3.Decode(rc)
}
