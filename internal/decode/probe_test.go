package decode

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Container
	}{
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), WAV},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), FLAC},
		{"ogg", []byte("OggS\x00\x02"), Ogg},
		{"m4a", []byte("\x00\x00\x00\x20ftypM4A "), M4A},
		{"id3", []byte("ID3\x04\x00\x00"), MP3},
		{"mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x64}, MP3},
		{"adts aac is not mp3", []byte{0xFF, 0xF1, 0x50, 0x80}, Unknown},
		{"riff but not wave", []byte("RIFF\x24\x00\x00\x00AVI "), Unknown},
		{"text", []byte("hello world"), Unknown},
		{"empty", nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.head); got != tt.want {
				t.Errorf("Sniff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromExtension(t *testing.T) {
	tests := []struct {
		name string
		want Container
	}{
		{"/music/a.wav", WAV},
		{"/music/A.FLAC", FLAC},
		{"song.mp3", MP3},
		{"song.opus", Ogg},
		{"song.oga", Ogg},
		{"song.m4a", M4A},
		{"https://example.com/stream/track.mp3?token=abc", MP3},
		{"https://example.com/stream", Unknown},
		{"notes.txt", Unknown},
	}
	for _, tt := range tests {
		if got := FromExtension(tt.name); got != tt.want {
			t.Errorf("FromExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFromMIME(t *testing.T) {
	tests := []struct {
		ct   string
		want Container
	}{
		{"audio/mpeg", MP3},
		{"audio/ogg; codecs=opus", Ogg},
		{"audio/x-wav", WAV},
		{"audio/flac", FLAC},
		{"audio/mp4", M4A},
		{"text/html; charset=utf-8", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := FromMIME(tt.ct); got != tt.want {
			t.Errorf("FromMIME(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}

// id3Tag builds an ID3v2 header followed by size bytes of padding.
func id3Tag(size int) []byte {
	b := []byte{'I', 'D', '3', 4, 0, 0,
		byte(size >> 21 & 0x7F), byte(size >> 14 & 0x7F), byte(size >> 7 & 0x7F), byte(size & 0x7F)}
	return append(b, make([]byte, size)...)
}

func TestProbe_FLACBehindID3(t *testing.T) {
	data := append(id3Tag(300), []byte("fLaC\x00\x00\x00\x22")...)
	r := bytes.NewReader(data)

	got, err := Probe(r, "", "")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if got != FLAC {
		t.Errorf("Probe() = %v, want FLAC", got)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("reader left at %d, want 0", pos)
	}
}

func TestProbe_MP3BehindID3(t *testing.T) {
	data := append(id3Tag(20), 0xFF, 0xFB, 0x90, 0x64)
	got, err := Probe(bytes.NewReader(data), "", "")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if got != MP3 {
		t.Errorf("Probe() = %v, want MP3", got)
	}
}

func TestProbe_FallsBackToHints(t *testing.T) {
	garbage := bytes.Repeat([]byte{0x42}, 100)

	got, err := Probe(bytes.NewReader(garbage), "https://example.com/a.ogg", "audio/mpeg")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if got != Ogg {
		t.Errorf("extension hint: got %v, want Ogg", got)
	}

	got, err = Probe(bytes.NewReader(garbage), "https://example.com/stream", "audio/mpeg")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if got != MP3 {
		t.Errorf("mime hint: got %v, want MP3", got)
	}
}

func TestProbe_Unknown(t *testing.T) {
	_, err := Probe(bytes.NewReader([]byte("plain text")), "notes.txt", "text/plain")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Probe() error = %v, want ErrUnknownFormat", err)
	}
}

func TestSkipID3v2(t *testing.T) {
	data := append(id3Tag(128), 'X')
	r := bytes.NewReader(data)
	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error: %v", err)
	}
	b, _ := r.ReadByte()
	if b != 'X' {
		t.Errorf("after skip read %q, want 'X'", b)
	}

	r = bytes.NewReader([]byte("fLaC"))
	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error: %v", err)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("untagged reader moved to %d", pos)
	}
}
