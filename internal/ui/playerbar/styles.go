package playerbar

import "github.com/charmbracelet/lipgloss"

// palette holds the bar colors.
type palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	FgBase    lipgloss.Color
	FgMuted   lipgloss.Color
	FgSubtle  lipgloss.Color
	Border    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
}

var theme = palette{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),
	FgBase:    lipgloss.Color("#c0c0c0"),
	FgMuted:   lipgloss.Color("#808080"),
	FgSubtle:  lipgloss.Color("#585858"),
	Border:    lipgloss.Color("#585858"),
	Success:   lipgloss.Color("#4ade80"),
	Error:     lipgloss.Color("#f87171"),
}

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FgBase).Bold(true)
}

func subtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FgMuted)
}

func metaStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FgSubtle)
}

func progressTimeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FgMuted)
}

func progressBarFilled() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Primary)
}

func progressBarEmpty() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.FgSubtle)
}

func playingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Success)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Error)
}

// ErrorStyle styles error messages shown under the bar.
func ErrorStyle() lipgloss.Style {
	return errorStyle()
}

// HintStyle styles help text.
func HintStyle() lipgloss.Style {
	return metaStyle()
}
