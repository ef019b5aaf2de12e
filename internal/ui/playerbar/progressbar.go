package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// RenderProgressBar renders "1:23  ━━━━───  4:56" in width cells. An unknown
// duration renders "--:--" and an empty bar.
func RenderProgressBar(position, duration time.Duration, known bool, width int) string {
	posStr := formatDuration(position)
	durStr := "--:--"
	if known {
		durStr = formatDuration(duration)
	}

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 3 {
		// Too narrow for bar, just show times
		return progressTimeStyle().Render(posStr + " / " + durStr)
	}

	var ratio float64
	if known && duration > 0 {
		ratio = min(float64(position)/float64(duration), 1)
	}
	filled := min(int(float64(barWidth)*ratio), barWidth)

	bar := gradient(filledBlock, filled, barWidth) +
		progressBarEmpty().Render(strings.Repeat(emptyBlock, barWidth-filled))

	return progressTimeStyle().Render(posStr) + "  " + bar + "  " + progressTimeStyle().Render(durStr)
}

// gradient renders n cells of block blended from the start to the end color
// across the whole bar width, so the color marks the position.
func gradient(block string, n, width int) string {
	if n == 0 {
		return ""
	}
	from, err1 := colorful.Hex(string(theme.Primary))
	to, err2 := colorful.Hex(string(theme.Secondary))
	if err1 != nil || err2 != nil {
		return progressBarFilled().Render(strings.Repeat(block, n))
	}

	var b strings.Builder
	for i := range n {
		t := 0.0
		if width > 1 {
			t = float64(i) / float64(width-1)
		}
		c := from.BlendLuv(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(block))
	}
	return b.String()
}
