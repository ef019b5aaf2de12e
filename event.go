// Package remu is an embeddable audio playback engine.
//
// The engine behaves like a media element: a player loads audio from a local
// path or a remote URL, renders it to an output device, exposes transport
// controls and reports lifecycle events to a single registered observer.
// See package player for the control surface.
package remu

// Family groups event kinds by their producer.
type Family int

const (
	// FamilyPlayer covers transport and lifecycle events.
	FamilyPlayer Family = iota
	// FamilyLoader covers events reported by the loader task itself.
	FamilyLoader
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyPlayer:
		return "player"
	case FamilyLoader:
		return "loader"
	default:
		return "unknown"
	}
}

// Kind identifies an event. The set is closed: 14 player kinds and 2 loader kinds.
type Kind int

const (
	KindPlay Kind = iota
	KindPause
	KindWaiting
	KindPlaying
	KindEnded
	KindEmptied
	KindDurationChange
	KindVolumeChange
	KindSeeking
	KindSeeked
	KindLoadStart
	KindLoadedData
	KindLoadedMetadata
	KindError

	KindCompleted
	KindAborted
)

var kindNames = [...]string{
	KindPlay:           "play",
	KindPause:          "pause",
	KindWaiting:        "waiting",
	KindPlaying:        "playing",
	KindEnded:          "ended",
	KindEmptied:        "emptied",
	KindDurationChange: "durationchange",
	KindVolumeChange:   "volumechange",
	KindSeeking:        "seeking",
	KindSeeked:         "seeked",
	KindLoadStart:      "loadstart",
	KindLoadedData:     "loadeddata",
	KindLoadedMetadata: "loadedmetadata",
	KindError:          "error",
	KindCompleted:      "completed",
	KindAborted:        "aborted",
}

// String returns the media-element style name of the kind ("loadstart", "durationchange", ...).
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Family reports which producer family the kind belongs to.
func (k Kind) Family() Family {
	if k == KindCompleted || k == KindAborted {
		return FamilyLoader
	}
	return FamilyPlayer
}

// Kinds returns every event kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, Kind(k))
	}
	return kinds
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Event is an immutable notification delivered to the observer.
// Message is only set for KindError.
type Event struct {
	Kind    Kind
	Message string
}

// NewEvent returns an event of the given kind.
func NewEvent(k Kind) Event {
	return Event{Kind: k}
}

// ErrorEvent returns a KindError event carrying msg.
func ErrorEvent(msg string) Event {
	return Event{Kind: KindError, Message: msg}
}

// Family returns the event's producer family.
func (e Event) Family() Family {
	return e.Kind.Family()
}

// HasMessage reports whether the event carries a diagnostic message.
func (e Event) HasMessage() bool {
	return e.Kind == KindError
}

// String returns the kind name, followed by the message for errors.
func (e Event) String() string {
	if e.HasMessage() {
		return e.Kind.String() + ": " + e.Message
	}
	return e.Kind.String()
}

// Observer receives events. It is invoked from the engine's delivery
// goroutine, never from the audio thread or the goroutine that caused the
// event. Panics are recovered and logged.
type Observer func(Event)
