// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"strconv"
	"strings"
	"sync"

	"github.com/llehouerou/remu/internal/loader"
	"github.com/llehouerou/remu/internal/mpris"
	"github.com/llehouerou/remu/player"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

const defaultTimeout = 5000

// NowPlaying describes a source that just started playing.
func NowPlaying(info player.SourceInfo) Notification {
	title := info.Title
	if title == "" {
		title = info.Display()
	}

	var body []string
	if info.Artist != "" {
		body = append(body, info.Artist)
	}
	if info.Album != "" {
		album := info.Album
		if info.Year > 0 {
			album += " (" + strconv.Itoa(info.Year) + ")"
		}
		body = append(body, album)
	}

	return Notification{
		Title:   title,
		Body:    strings.Join(body, "\n"),
		Icon:    artFor(info.Origin),
		Timeout: defaultTimeout,
		Urgency: UrgencyLow,
	}
}

// Failed reports a load or playback error.
func Failed(message string) Notification {
	return Notification{
		Title:   "Playback failed",
		Body:    message,
		Timeout: defaultTimeout,
		Urgency: UrgencyNormal,
	}
}

// artFor returns the cover image next to a local source. URL sources have none.
func artFor(origin string) string {
	d := loader.Resolve(origin)
	if d.Kind != loader.KindFile || d.Origin == "" {
		return ""
	}
	return mpris.FindAlbumArt(d.Origin)
}

// nop drops everything; used when no notification daemon is reachable.
type nop struct{}

func (nop) Notify(Notification) (uint32, error) { return 0, nil }

func (nop) Close(uint32) error { return nil }

// Recorder is a Notifier that keeps what it is sent, for tests.
type Recorder struct {
	mu     sync.Mutex
	sent   []Notification
	closed []uint32
}

func (r *Recorder) Notify(n Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	if n.ReplacesID != 0 {
		return n.ReplacesID, nil
	}
	return uint32(len(r.sent)), nil
}

func (r *Recorder) Close(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, id)
	return nil
}

// Sent returns the notifications sent so far.
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
