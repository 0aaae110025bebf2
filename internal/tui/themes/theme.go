package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	Debt          lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Help          lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
	Muted         lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#2ECC71"),
	Border:  lipgloss.Color("#404040"),
	Muted:   lipgloss.Color("#737373"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#2ECC71")).
		Foreground(lipgloss.Color("#1a1a1a")).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	Income: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	Expense: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	Debt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),

	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
}
