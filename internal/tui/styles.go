package tui

import "github.com/charmbracelet/lipgloss"

// styles bundles the lipgloss styles for one theme. Rebuilt whenever the
// theme toggles so every view picks up the new palette on the next render.
type styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Status   lipgloss.Style
	ErrorMsg lipgloss.Style
	Help     lipgloss.Style

	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTitle   lipgloss.Style

	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardGrabbed lipgloss.Style
	CardPending lipgloss.Style

	PriorityLow    lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityHigh   lipgloss.Style

	Badge      lipgloss.Style
	AdminBadge lipgloss.Style
	SelfRow    lipgloss.Style

	FormLabel  lipgloss.Style
	FormActive lipgloss.Style
}

func newStyles(dark bool) styles {
	text := lipgloss.Color("#172B4D")
	subtle := lipgloss.Color("#6B778C")
	border := lipgloss.Color("#DFE1E6")
	accent := lipgloss.Color("#0052CC")
	if dark {
		text = lipgloss.Color("#E6EDF3")
		subtle = lipgloss.Color("#8B949E")
		border = lipgloss.Color("#3D444D")
		accent = lipgloss.Color("#5B8DEF")
	}

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return styles{
		Title:    lipgloss.NewStyle().Foreground(text).Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(subtle),
		Status:   lipgloss.NewStyle().Foreground(accent),
		ErrorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(subtle),

		Column:        column,
		ColumnFocused: column.BorderForeground(accent),
		ColumnTitle:   lipgloss.NewStyle().Foreground(text).Bold(true),

		Card:        card,
		CardFocused: card.BorderForeground(accent),
		CardGrabbed: card.BorderForeground(lipgloss.Color("#F7B801")),
		CardPending: card.BorderForeground(subtle),

		PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),

		Badge:      lipgloss.NewStyle().Foreground(subtle),
		AdminBadge: lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		SelfRow:    lipgloss.NewStyle().Foreground(accent).Bold(true),

		FormLabel:  lipgloss.NewStyle().Foreground(subtle),
		FormActive: lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

func (s styles) priority(p string) lipgloss.Style {
	switch p {
	case "LOW":
		return s.PriorityLow
	case "HIGH":
		return s.PriorityHigh
	default:
		return s.PriorityMedium
	}
}
