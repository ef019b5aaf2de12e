// Package playerbar renders the transport bar of the terminal host.
package playerbar

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/remu/player"
)

// State holds everything needed to render the player bar.
type State struct {
	Status   player.State
	Title    string
	Subtitle string // "Artist · Album · Year"
	Format   string // "FLAC · 44.1 kHz · stereo · 12 MiB"
	Position time.Duration
	Duration time.Duration
	Known    bool // Duration is known
	Volume   float64
	Muted    bool
}

// Height is the rendered height of the bar: two content rows plus borders.
const Height = 4

// NewState reads the player into a State.
func NewState(p player.Interface) State {
	s := State{
		Status:   p.State(),
		Position: p.Position(),
		Volume:   p.Volume(),
		Muted:    p.Muted(),
	}
	s.Duration, s.Known = p.Duration()

	info, ok := p.Source()
	if !ok {
		return s
	}

	s.Title = info.Title
	if s.Title == "" {
		s.Title = path.Base(info.Origin)
	}

	var parts []string
	if info.Artist != "" {
		parts = append(parts, info.Artist)
	}
	if info.Album != "" {
		parts = append(parts, info.Album)
	}
	if info.Year > 0 {
		parts = append(parts, strconv.Itoa(info.Year))
	}
	s.Subtitle = strings.Join(parts, " · ")
	s.Format = formatInfo(info)
	return s
}

// Render returns the player bar for the given terminal width.
func Render(s State, width int) string {
	// border + padding on each side
	innerWidth := max(width-6, 0)

	title := s.Title
	if title == "" {
		title = "Nothing loaded"
	}
	top := titleStyle().Render(truncate(title, innerWidth))
	if s.Subtitle != "" {
		room := innerWidth - lipgloss.Width(top) - 3
		if room > 3 {
			top += "   " + subtitleStyle().Render(truncate(s.Subtitle, room))
		}
	}

	status := statusSymbol(s.Status)
	volume := RenderVolume(s.Volume, s.Muted)
	format := ""
	if s.Format != "" {
		format = metaStyle().Render(s.Format) + "   "
	}
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(format) + 3 + lipgloss.Width(volume)
	progress := RenderProgressBar(s.Position, s.Duration, s.Known, max(innerWidth-fixed, 0))

	bottom := status + "  " + progress + "   " + format + volume

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(top + "\n" + bottom)
}

// RenderVolume renders the volume indicator: "vol 100%", or "mute 100%".
func RenderVolume(volume float64, muted bool) string {
	label := "vol"
	if muted {
		label = "mute"
	}
	return progressTimeStyle().Render(fmt.Sprintf("%s %3d%%", label, int(volume*100+0.5)))
}

func statusSymbol(s player.State) string {
	switch s {
	case player.Playing:
		return playingStyle().Render("▶")
	case player.Paused, player.Ready:
		return "⏸"
	case player.Loading:
		return "…"
	case player.Ended:
		return "■"
	case player.Error:
		return errorStyle().Render("✕")
	default:
		return " "
	}
}

func formatInfo(info player.SourceInfo) string {
	var parts []string
	if info.Codec != "" {
		parts = append(parts, info.Codec)
	}
	if info.SampleRate > 0 {
		parts = append(parts, formatRate(info.SampleRate))
	}
	switch info.Channels {
	case 0:
	case 1:
		parts = append(parts, "mono")
	case 2:
		parts = append(parts, "stereo")
	default:
		parts = append(parts, strconv.Itoa(info.Channels)+"ch")
	}
	if info.Size > 0 {
		parts = append(parts, humanize.IBytes(uint64(info.Size)))
	}
	return strings.Join(parts, " · ")
}

// formatRate renders 44100 as "44.1 kHz" and 48000 as "48 kHz".
func formatRate(hz int) string {
	khz := strconv.FormatFloat(float64(hz)/1000, 'f', -1, 64)
	return khz + " kHz"
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
