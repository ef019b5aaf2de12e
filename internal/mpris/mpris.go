//go:build linux

// Package mpris exposes a player over D-Bus so desktop media keys and
// applets can control it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"path"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/remu/internal/loader"
	"github.com/llehouerou/remu/player"
)

// Adapter connects a player to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(p player.Interface, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("remu", &rootAdapter{}, &playerAdapter{player: p}),
	}

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // the terminal host owns its lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "remu", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{
		"audio/wav", "audio/x-wav", "audio/flac", "audio/mpeg",
		"audio/ogg", "audio/opus", "audio/mp4", "audio/x-m4a",
	}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	player player.Interface
}

// Next is a no-op: a player holds a single source.
func (p *playerAdapter) Next() error { return nil }

// Previous is a no-op: a player holds a single source.
func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	p.player.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.player.Toggle()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.player.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	p.player.Play()
	return nil
}

// Seek moves by a relative offset.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.player.Seek(p.player.Position() + time.Duration(offset)*time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.player.Seek(time.Duration(position) * time.Microsecond)
}

// OpenUri loads uri; the outcome arrives through the player's events.
//
//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	p.player.Load(uri)
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.player.State() {
	case player.Playing:
		return types.PlaybackStatusPlaying, nil
	case player.Paused, player.Ready:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	info, ok := p.player.Source()
	if !ok {
		return types.Metadata{}, nil
	}

	title := info.Title
	if title == "" {
		title = path.Base(info.Origin)
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(info.ID)),
		Title:   title,
		Album:   info.Album,
	}
	if info.Known {
		meta.Length = types.Microseconds(info.Duration.Microseconds())
	}
	if info.Artist != "" {
		meta.Artist = []string{info.Artist}
	}

	if d := loader.Resolve(info.Origin); d.Kind == loader.KindFile {
		if artPath := FindAlbumArt(d.Origin); artPath != "" {
			meta.ArtUrl = "file://" + artPath
		}
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	if p.player.Muted() {
		return 0, nil
	}
	return p.player.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.player.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	s := p.player.State()
	return s.CanPlay() || s == player.Playing, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	s := p.player.State()
	return s.CanPause() || s == player.Paused, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.player.State().CanSeek(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// formatTrackID derives a D-Bus object path from a source ID.
func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/remu/Track/%x", h.Sum64())
}
