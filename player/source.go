package player

import "time"

// SourceInfo describes the attached source.
type SourceInfo struct {
	ID         string
	Origin     string
	Container  string // WAV, FLAC, MP3, Ogg, M4A
	Codec      string // PCM, FLAC, MP3, Vorbis, Opus, AAC, ALAC
	SampleRate int
	Channels   int
	Size       int64 // bytes acquired
	Duration   time.Duration
	Known      bool // Duration is known

	Title  string
	Artist string
	Album  string
	Year   int
}

// Source returns a description of the attached source, and false when none
// is attached.
func (p *Player) Source() (SourceInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return SourceInfo{}, false
	}
	s := p.src
	info := SourceInfo{
		ID:         s.ID.String(),
		Origin:     s.Descriptor.Origin,
		Container:  s.Container.String(),
		Codec:      string(s.Codec),
		SampleRate: int(s.Format.SampleRate),
		Channels:   s.Format.NumChannels,
		Size:       s.Size,
		Duration:   p.duration,
		Known:      p.known,
	}
	if s.Tags != nil {
		info.Title = s.Tags.Title
		info.Artist = s.Tags.Artist
		info.Album = s.Tags.Album
		info.Year = s.Tags.Year()
	}
	return info, true
}

// Display returns "Artist - Title" when tagged, the origin otherwise.
func (i SourceInfo) Display() string {
	switch {
	case i.Artist != "" && i.Title != "":
		return i.Artist + " - " + i.Title
	case i.Title != "":
		return i.Title
	default:
		return i.Origin
	}
}
