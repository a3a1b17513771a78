package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the browser.
type Styles struct {
	App          lipgloss.Style
	Breadcrumb   lipgloss.Style
	Category     lipgloss.Style
	Item         lipgloss.Style
	ItemCursor   lipgloss.Style
	ItemSelected lipgloss.Style
	Pin          lipgloss.Style
	Meta         lipgloss.Style
	Error        lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#404040", Dark: "#B0B0B0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#3A6EA5", Dark: "#6E9FD4"}
	danger := lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Breadcrumb: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Category: lipgloss.NewStyle().
			Bold(true).
			Foreground(subtle).
			MarginTop(1),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(2),

		ItemCursor: lipgloss.NewStyle().
			PaddingLeft(2).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(accent),

		Pin: lipgloss.NewStyle().
			Foreground(accent),

		Meta: lipgloss.NewStyle().
			Foreground(subtle),

		Error: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),

		Status: lipgloss.NewStyle().
			Foreground(subtle),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(2),
	}
}
