package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Alert severities
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Amounts and totals
	amountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Category badge colors
	categoryColors = map[string]lipgloss.Color{
		"FOOD":          lipgloss.Color("#f0944a"),
		"TRANSPORT":     lipgloss.Color("#60a0e0"),
		"ENTERTAINMENT": lipgloss.Color("#c084e0"),
		"UTILITIES":     lipgloss.Color("#d4a844"),
		"HEALTH":        lipgloss.Color("#e06060"),
		"SHOPPING":      lipgloss.Color("#3ecce4"),
		"TRAVEL":        lipgloss.Color("#43e88c"),
		"OTHER":         lipgloss.Color("#8890a0"),
	}
)

// CategoryStyle returns a bold style colored for the given canonical category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
