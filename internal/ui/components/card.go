package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// ContentWidth is the shared inner width of cards inside a frame of
// frameWidth columns, clamped to [20, 60].
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// Cabinet centres content inside a double-bordered box filling
// width x height.
func Cabinet(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a padded rounded box cw columns wide.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Align(lipgloss.Center).
		Render(content)
}
