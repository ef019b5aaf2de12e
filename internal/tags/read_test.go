package tags

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bogem/id3v2/v2"
)

// id3File returns an ID3v2.4 tag followed by a few bytes of fake audio.
func id3File(t *testing.T) []byte {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetTitle("Sinnerman")
	tag.SetArtist("Nina Simone")
	tag.SetAlbum("Pastel Blues")
	tag.SetGenre("Jazz")
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "10/10")
	tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, "1965")

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("write id3: %v", err)
	}
	buf.Write([]byte{0xFF, 0xFB, 0x90, 0x64, 0, 0, 0, 0})
	return buf.Bytes()
}

func TestRead_ID3(t *testing.T) {
	r := bytes.NewReader(id3File(t))
	got, err := Read(r)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got.Title != "Sinnerman" || got.Artist != "Nina Simone" || got.Album != "Pastel Blues" {
		t.Errorf("Read() = %+v", got)
	}
	if got.AlbumArtist != "Nina Simone" {
		t.Errorf("AlbumArtist = %q, want artist fallback", got.AlbumArtist)
	}
	if got.TrackNumber != 10 || got.TotalTracks != 10 {
		t.Errorf("track = %d/%d, want 10/10", got.TrackNumber, got.TotalTracks)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("reader left at %d, want 0", pos)
	}
}

func TestReadID3v2_Fallback(t *testing.T) {
	got, err := readID3v2(bytes.NewReader(id3File(t)))
	if err != nil {
		t.Fatalf("readID3v2() error: %v", err)
	}
	if got.Title != "Sinnerman" || got.Genre != "Jazz" {
		t.Errorf("readID3v2() = %+v", got)
	}
	if got.Year() != 1965 {
		t.Errorf("Year() = %d, want 1965", got.Year())
	}
	if got.Format != "ID3v2" {
		t.Errorf("Format = %q", got.Format)
	}
}

func TestRead_Untagged(t *testing.T) {
	r := bytes.NewReader([]byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00"))
	_, err := Read(r)
	if err == nil {
		t.Fatal("Read() succeeded on untagged data")
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("reader left at %d, want 0", pos)
	}
}

func TestReadID3v2_NotID3(t *testing.T) {
	if _, err := readID3v2(bytes.NewReader([]byte("fLaC"))); !errors.Is(err, ErrNoTags) {
		t.Errorf("readID3v2() error = %v, want ErrNoTags", err)
	}
}
