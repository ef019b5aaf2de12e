package keymap

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "transport", "volume"
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionOpen, []string{"o"}, "Open path or URL", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Transport
	{ActionPlayPause, []string{" "}, "Play/pause", "transport"},
	{ActionStop, []string{"s"}, "Stop", "transport"},
	{ActionReplay, []string{"r"}, "Seek to start", "transport"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "transport"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "transport"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek -30s", "transport"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek +30s", "transport"},

	// Volume
	{ActionVolumeUp, []string{"+", "=", "up"}, "Volume +5%", "volume"},
	{ActionVolumeDown, []string{"-", "down"}, "Volume -5%", "volume"},
	{ActionMute, []string{"m"}, "Mute", "volume"},
}

// Contexts lists binding contexts in help order.
var Contexts = []string{"global", "transport", "volume"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// KeyLabel renders a key for display ("space" for " ").
func KeyLabel(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
