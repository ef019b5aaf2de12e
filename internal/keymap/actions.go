// Package keymap defines key bindings and action dispatch for the terminal host.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"
	ActionOpen Action = "open" // prompt for a path or URL

	// Transport actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionReplay          Action = "replay"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"

	// Volume actions
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionMute       Action = "mute"
)
