package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// Theme holds the colors shelf renders with.
type Theme struct {
	Name string

	Background  string // screen and banner text
	Surface     string // header, footer and overlays
	Border      string // unfocused cards
	BorderFocus string // focused card and the form
	Selection   string // selected compact row

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	CategoryColors map[catalog.Category]string
}

// Styles is the set of lipgloss styles built from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header      lipgloss.Style
	Footer      lipgloss.Style
	Selected    lipgloss.Style
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Banner      lipgloss.Style

	categoryColors map[catalog.Category]string
	background     string
	muted          string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func card(border string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1)
}

// Styles returns the lipgloss styles for t.
func (t Theme) Styles() Styles {
	bar := lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:      bar.Foreground(lipgloss.Color(t.Text)),
		Footer:      bar.Foreground(lipgloss.Color(t.Muted)),
		Selected:    fg(t.Text).Background(lipgloss.Color(t.Selection)),
		Card:        card(t.Border),
		CardFocused: card(t.BorderFocus),
		Banner: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Danger)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),

		categoryColors: t.CategoryColors,
		background:     t.Background,
		muted:          t.Muted,
	}
}

// CategoryStyle returns the badge style for a category. Unknown categories
// use the muted color.
func (s Styles) CategoryStyle(c catalog.Category) lipgloss.Style {
	color := s.categoryColors[c]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of s whose text and bar styles paint bgColor
// instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Selected,
	} {
		*st = st.Background(bg)
	}
	return out
}

// themeOrder is the cycle used by the theme key. The first entry is the
// fallback for unknown names.
var themeOrder = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:        "Nightfox",
		Background:  "#131a24",
		Surface:     "#192330",
		Border:      "#39506d",
		BorderFocus: "#719cd6",
		Selection:   "#2b3b51",
		Text:        "#cdcecf",
		Muted:       "#738091",
		Faint:       "#71839b",
		Accent:      "#719cd6",
		Success:     "#81b29a",
		Warning:     "#dbc074",
		Danger:      "#c94f6d",
		Info:        "#63cdcf",
		CategoryColors: map[catalog.Category]string{
			catalog.CategoryGeneral:     "#738091",
			catalog.CategoryElectronics: "#719cd6",
			catalog.CategoryClothing:    "#9d79d6",
			catalog.CategoryFood:        "#81b29a",
			catalog.CategoryBooks:       "#dbc074",
		},
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:        "Kanagawa",
		Background:  "#16161D",
		Surface:     "#1F1F28",
		Border:      "#54546D",
		BorderFocus: "#7E9CD8",
		Selection:   "#2D4F67",
		Text:        "#DCD7BA",
		Muted:       "#C8C093",
		Faint:       "#727169",
		Accent:      "#7E9CD8",
		Success:     "#98BB6C",
		Warning:     "#E6C384",
		Danger:      "#E46876",
		Info:        "#7FB4CA",
		CategoryColors: map[catalog.Category]string{
			catalog.CategoryGeneral:     "#727169",
			catalog.CategoryElectronics: "#7E9CD8",
			catalog.CategoryClothing:    "#957FB8",
			catalog.CategoryFood:        "#98BB6C",
			catalog.CategoryBooks:       "#E6C384",
		},
	},
}

// GetTheme returns the named theme, or the first theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range themeOrder {
		if t.Name == name {
			return t
		}
	}
	return themeOrder[0]
}

// NextTheme returns the theme name after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames lists the available themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = t.Name
	}
	return names
}
