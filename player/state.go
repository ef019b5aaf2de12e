package player

// State is the player's position in its lifecycle.
//
// Valid transitions:
//   - any     → Loading (via Load*; Emptied first if a source is replaced)
//   - Loading → Ready   (load completed, source attached and paused)
//   - Loading → Idle    (load failed, or Stop)
//   - Ready   → Playing (via Play)
//   - Paused  → Playing (via Play)
//   - Ended   → Playing (via Play, from the start)
//   - Playing → Paused  (via Pause)
//   - Playing → Ended   (stream exhausted, or Seek to the end)
//   - Paused  → Ended   (stream ran out as it was being paused)
//   - Ended   → Paused  (Seek before the end)
//   - Playing/Paused → Error (decode failure during playback)
//   - Ready/Playing/Paused/Ended/Error → Idle (via Stop)
//
// Everything else is a no-op: Play while Idle, Loading or Playing; Pause
// unless Playing; Stop while Idle. Error is terminal for its source: Play
// does nothing and Seek fails until a new load or Stop.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Playing
	Paused
	Ended
	Error
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// HasSource reports whether a source is attached in this state.
func (s State) HasSource() bool {
	switch s {
	case Ready, Playing, Paused, Ended, Error:
		return true
	default:
		return false
	}
}

// CanPlay reports whether Play has an effect.
func (s State) CanPlay() bool {
	return s == Ready || s == Paused || s == Ended
}

// CanPause reports whether Pause has an effect.
func (s State) CanPause() bool {
	return s == Playing
}

// CanSeek reports whether Seek is accepted. A source that failed during
// playback is not seekable.
func (s State) CanSeek() bool {
	return s == Ready || s == Playing || s == Paused || s == Ended
}
