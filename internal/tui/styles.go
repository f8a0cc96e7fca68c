package tui

import "github.com/charmbracelet/lipgloss"

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// palette is the set of colors a theme is built from.
type palette struct {
	fg, dim, accent, accentFg, border, done, err lipgloss.Color
}

var palettes = map[string]palette{
	ThemeDark: {
		fg: "252", dim: "241", accent: "62", accentFg: "230",
		border: "240", done: "34", err: "196",
	},
	ThemeLight: {
		fg: "235", dim: "245", accent: "25", accentFg: "255",
		border: "250", done: "28", err: "160",
	},
}

// styles are the lipgloss styles of one theme.
type styles struct {
	name        string
	title       lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	item        lipgloss.Style
	selected    lipgloss.Style
	description lipgloss.Style
	stamp       lipgloss.Style
	dim         lipgloss.Style
	label       lipgloss.Style
	invalid     lipgloss.Style
	errorLine   lipgloss.Style
	status      lipgloss.Style
	dialog      lipgloss.Style
}

func newStyles(name string) styles {
	p, ok := palettes[name]
	if !ok {
		name = ThemeDark
		p = palettes[name]
	}
	return styles{
		name:        name,
		title:       lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		tab:         lipgloss.NewStyle().Foreground(p.dim).Padding(0, 1),
		activeTab:   lipgloss.NewStyle().Bold(true).Foreground(p.accentFg).Background(p.accent).Padding(0, 1),
		item:        lipgloss.NewStyle().Foreground(p.fg),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		description: lipgloss.NewStyle().Foreground(p.dim),
		stamp:       lipgloss.NewStyle().Foreground(p.done),
		dim:         lipgloss.NewStyle().Foreground(p.dim),
		label:       lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		invalid:     lipgloss.NewStyle().Foreground(p.err),
		errorLine:   lipgloss.NewStyle().Foreground(p.err).Bold(true),
		status:      lipgloss.NewStyle().Foreground(p.done),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2), //nolint:mnd // dialog padding
	}
}

// otherTheme returns the theme that t toggles to.
func otherTheme(name string) string {
	if name == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
