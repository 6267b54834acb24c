package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// Modal is a dialog that takes all keys while open. Update returns the next
// modal state, an optional command and whether the modal is done.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDelete asks before a product is deleted. Only an explicit yes
// issues the delete.
type confirmDelete struct {
	id   string
	name string
}

func newConfirmDelete(p catalog.Product) confirmDelete {
	return confirmDelete{id: p.ID, name: p.Name}
}

func (c confirmDelete) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		id := c.id
		return c, func() tea.Msg { return confirmDeleteMsg{id: id} }, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDelete) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete product?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("%q will be removed from the catalog.", truncate(c.name, 40))))
	b.WriteString("\n\n")
	b.WriteString(styles.WarningText.Render("y") + styles.MutedText.Render(" delete   "))
	b.WriteString(styles.WarningText.Render("n/esc") + styles.MutedText.Render(" keep"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
