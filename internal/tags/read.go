package tags

import (
	"bytes"
	"errors"
	"io"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// ErrNoTags is returned when the source carries no readable metadata.
var ErrNoTags = errors.New("no tags found")

// Read reads tag metadata from r and rewinds it to the start.
func Read(r io.ReadSeeker) (*Tag, error) {
	t, err := read(r)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil && err == nil {
		err = serr
	}
	return t, err
}

func read(r io.ReadSeeker) (*Tag, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		// dhowden/tag has issues with some UTF-16 encoded ID3 tags.
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		return readID3v2(r)
	}

	track, totalTracks := m.Track()
	disc, totalDiscs := m.Disc()
	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}
	return &Tag{
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: albumArtist,
		Album:       m.Album(),
		Genre:       m.Genre(),
		Date:        yearToDate(m.Year()),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
		Format:      string(m.Format()),
		HasCover:    m.Picture() != nil,
	}, nil
}

func readID3v2(r io.Reader) (*Tag, error) {
	var head [3]byte
	if _, err := io.ReadFull(r, head[:]); err != nil || !bytes.Equal(head[:], []byte("ID3")) {
		return nil, ErrNoTags
	}
	id3tag, err := id3v2.ParseReader(io.MultiReader(bytes.NewReader(head[:]), r), id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}

	artist := id3tag.Artist()
	albumArtist := textFrame(id3tag, "TPE2")
	if albumArtist == "" {
		albumArtist = artist
	}
	track, totalTracks := parseNumberPair(textFrame(id3tag, "TRCK"))
	disc, totalDiscs := parseNumberPair(textFrame(id3tag, "TPOS"))

	date := textFrame(id3tag, "TDRC")
	if date == "" {
		date = id3tag.Year()
	}
	return &Tag{
		Title:       id3tag.Title(),
		Artist:      artist,
		AlbumArtist: albumArtist,
		Album:       id3tag.Album(),
		Genre:       id3tag.Genre(),
		Date:        date,
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
		Format:      "ID3v2",
		HasCover:    len(id3tag.GetFrames(id3tag.CommonID("Attached picture"))) > 0,
	}, nil
}

func textFrame(id3tag *id3v2.Tag, id string) string {
	frames := id3tag.GetFrames(id)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
