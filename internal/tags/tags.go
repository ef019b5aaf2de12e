// Package tags reads descriptive metadata embedded in a loaded source.
package tags

import (
	"strconv"
	"strings"
)

// Tag holds the metadata fields the engine exposes for a source.
type Tag struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Date        string // YYYY or YYYY-MM-DD

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	// Format is the tag container (ID3v2.4, VORBIS, MP4, ...).
	Format   string
	HasCover bool
}

// Year derives the year from Date. Returns 0 if Date is empty or invalid.
func (t *Tag) Year() int {
	if t == nil || t.Date == "" {
		return 0
	}
	year := t.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// Empty reports whether no descriptive field is set.
func (t *Tag) Empty() bool {
	return t == nil || (t.Title == "" && t.Artist == "" && t.Album == "" &&
		t.AlbumArtist == "" && t.Genre == "" && t.Date == "" && t.TrackNumber == 0)
}

// Display returns "Artist - Title", falling back to whichever is set.
func (t *Tag) Display() string {
	if t == nil {
		return ""
	}
	switch {
	case t.Artist != "" && t.Title != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return t.Artist
	}
}

// parseNumberPair parses a track or disc number in "N" or "N/M" form.
func parseNumberPair(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return num, total
}

func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
