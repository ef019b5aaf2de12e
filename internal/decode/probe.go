// Package decode turns audio bytes into seekable beep streams.
package decode

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
)

// Container is an audio file format.
type Container int

const (
	Unknown Container = iota
	WAV
	FLAC
	MP3
	Ogg
	M4A
)

// String returns the container name.
func (c Container) String() string {
	switch c {
	case WAV:
		return "WAV"
	case FLAC:
		return "FLAC"
	case MP3:
		return "MP3"
	case Ogg:
		return "Ogg"
	case M4A:
		return "M4A"
	default:
		return "Unknown"
	}
}

// ErrUnknownFormat is returned when neither content nor hints identify the container.
var ErrUnknownFormat = errors.New("unrecognized audio format")

const sniffLen = 64

// Sniff identifies a container from the first bytes of a file.
// A leading ID3v2 tag is reported as MP3; Probe looks past it.
func Sniff(head []byte) Container {
	switch {
	case len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		return WAV
	case bytes.HasPrefix(head, []byte("fLaC")):
		return FLAC
	case bytes.HasPrefix(head, []byte("OggS")):
		return Ogg
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return M4A
	case bytes.HasPrefix(head, []byte("ID3")):
		return MP3
	case isMP3Sync(head):
		return MP3
	default:
		return Unknown
	}
}

// isMP3Sync reports an MPEG audio frame header (11 sync bits, layer != 0).
func isMP3Sync(head []byte) bool {
	if len(head) < 2 || head[0] != 0xFF || head[1]&0xE0 != 0xE0 {
		return false
	}
	return (head[1]>>1)&0x03 != 0
}

// FromExtension maps a file name, path or URL to a container by extension.
func FromExtension(name string) Container {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Path != "" {
		name = u.Path
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".wav", ".wave":
		return WAV
	case ".flac":
		return FLAC
	case ".mp3":
		return MP3
	case ".ogg", ".oga", ".opus":
		return Ogg
	case ".m4a", ".mp4", ".m4b", ".aac":
		return M4A
	default:
		return Unknown
	}
}

// FromMIME maps a Content-Type header value to a container.
func FromMIME(contentType string) Container {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Unknown
	}
	switch mt {
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return WAV
	case "audio/flac", "audio/x-flac":
		return FLAC
	case "audio/mpeg", "audio/mp3":
		return MP3
	case "audio/ogg", "audio/opus", "audio/vorbis", "application/ogg":
		return Ogg
	case "audio/mp4", "audio/m4a", "audio/x-m4a", "audio/aac":
		return M4A
	default:
		return Unknown
	}
}

// Probe identifies the container of r by content, falling back to the given
// hints (a file name or URL, then a MIME type). r is left at offset 0.
func Probe(r io.ReadSeeker, name, contentType string) (Container, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, err
	}
	head = head[:n]

	c := Sniff(head)
	if bytes.HasPrefix(head, []byte("ID3")) {
		// FLAC files sometimes carry an ID3v2 tag in front of the stream marker.
		if err := skipID3v2(r); err != nil {
			return Unknown, err
		}
		var marker [4]byte
		if _, err := io.ReadFull(r, marker[:]); err == nil && string(marker[:]) == "fLaC" {
			c = FLAC
		}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Unknown, err
	}

	if c == Unknown {
		c = FromExtension(name)
	}
	if c == Unknown {
		c = FromMIME(contentType)
	}
	if c == Unknown {
		return Unknown, ErrUnknownFormat
	}
	return c, nil
}

// skipID3v2 skips an ID3v2 tag at the start of r, if present.
// The tag size is a syncsafe integer: four bytes of seven bits each.
func skipID3v2(r io.ReadSeeker) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	var header [10]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil || n < len(header) || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
