package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// CardActions are the capabilities a product card exposes. The list owns the
// implementations; a card only knows it can ask for an edit or a delete.
type CardActions struct {
	RequestEdit   func(p catalog.Product)
	RequestDelete func(id string)
}

// handleKey dispatches a card-level key to the matching action. It reports
// whether the key was consumed.
func (a CardActions) handleKey(msg tea.KeyMsg, keys keyMap, p catalog.Product) bool {
	switch {
	case key.Matches(msg, keys.Edit):
		if a.RequestEdit != nil {
			a.RequestEdit(p)
		}
		return true
	case key.Matches(msg, keys.Delete):
		if a.RequestDelete != nil {
			a.RequestDelete(p.ID)
		}
		return true
	}
	return false
}

// cardActions binds the card capabilities to this model.
func (m *Model) cardActions() CardActions {
	return CardActions{
		RequestEdit: func(p catalog.Product) {
			// The row may be stale; edit what the store holds now.
			if m.store != nil {
				if current, ok := m.store.Product(p.ID); ok {
					p = current
				} else {
					return
				}
			}
			m.session.OpenForEdit(p)
			m.form.load(m.session.Draft())
		},
		RequestDelete: func(id string) {
			p, ok := m.productByID(id)
			if !ok {
				return
			}
			m.modal = newConfirmDelete(p)
		},
	}
}

// handleListKey processes navigation and card actions for the product list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Products
	itemCount := len(items)
	if itemCount == 0 {
		return m, nil
	}

	page := maxInt(1, m.listPageSize())
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < itemCount-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = itemCount - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow = min(itemCount-1, m.selectedRow+page)
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow = maxInt(0, m.selectedRow-page)
	default:
		m.clampSelection()
		actions := m.cardActions()
		if actions.handleKey(msg, m.keys, items[m.selectedRow]) && m.session.Visible() {
			return m, m.form.focus(0)
		}
		return m, nil
	}
	m.selectedID = items[m.selectedRow].ID
	return m, nil
}

// restoreSelection moves the cursor back onto the previously selected
// product after the list was replaced.
func (m *Model) restoreSelection() {
	if m.selectedID != "" {
		for i, p := range m.snapshot.Products {
			if p.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}
	m.clampSelection()
	if len(m.snapshot.Products) > 0 {
		m.selectedID = m.snapshot.Products[m.selectedRow].ID
	} else {
		m.selectedID = ""
	}
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Products)
	switch {
	case n == 0:
		m.selectedRow = 0
	case m.selectedRow >= n:
		m.selectedRow = n - 1
	case m.selectedRow < 0:
		m.selectedRow = 0
	}
}

func (m Model) itemHeight() int {
	if m.compact {
		return rowHeight
	}
	return cardHeight
}

// listPageSize is the number of products that fit below the header.
func (m Model) listPageSize() int {
	return maxInt(1, (m.height-3)/m.itemHeight())
}

// renderProducts renders the product list or its empty and loading states.
func (m Model) renderProducts(height int) string {
	styles := m.theme.Styles()
	products := m.snapshot.Products

	if len(products) == 0 {
		var msg string
		switch {
		case m.loading():
			msg = m.spinner.View() + " " + styles.MutedText.Render("Loading products...")
		case m.snapshot.ErrorMessage() != "":
			msg = styles.MutedText.Render("No products loaded. Press r to retry.")
		default:
			msg = styles.Text.Bold(true).Render("No products yet") + "\n" +
				styles.MutedText.Render("Press n to add the first one.")
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	perPage := maxInt(1, height/m.itemHeight())
	start := 0
	if m.selectedRow >= perPage {
		start = m.selectedRow - perPage + 1
	}
	end := min(len(products), start+perPage)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		if m.compact {
			rows = append(rows, m.renderRow(products[i], selected))
		} else {
			rows = append(rows, m.renderCard(products[i], selected))
		}
	}
	return strings.Join(rows, "\n")
}

// renderCard renders one product as a bordered card.
func (m Model) renderCard(p catalog.Product, selected bool) string {
	styles := m.theme.Styles()

	width := min(maxInt(m.width-2, 20), LayoutCardMaxWidth)
	inner := maxInt(10, width-4) // border + padding

	badge := styles.CategoryStyle(p.Category).Render(string(p.Category))
	nameWidth := maxInt(1, inner-lipgloss.Width(badge)-1)
	name := styles.Text.Bold(true).Render(padRight(truncate(p.Name, nameWidth), nameWidth))
	line1 := name + " " + badge

	desc := p.Description
	if strings.TrimSpace(desc) == "" {
		desc = "No description"
	}
	line2 := styles.MutedText.Render(truncate(desc, inner))

	price := styles.SuccessText.Render(formatPrice(p.Price))
	created := styles.FaintText.Render(formatCreated(p))
	gap := maxInt(1, inner-lipgloss.Width(price)-lipgloss.Width(created))
	line3 := price + strings.Repeat(" ", gap) + created

	card := styles.Card
	if selected {
		card = styles.CardFocused
	}
	return card.Width(width - 2).Render(strings.Join([]string{line1, line2, line3}, "\n"))
}

// renderRow renders one product as a single compact line.
func (m Model) renderRow(p catalog.Product, selected bool) string {
	styles := m.theme.Styles()

	priceWidth := 12
	catWidth := 13
	dateWidth := 14
	nameWidth := maxInt(10, m.width-priceWidth-catWidth-dateWidth-6)

	line := fmt.Sprintf("%s %s %s %s",
		padRight(truncate(p.Name, nameWidth), nameWidth),
		padRight(string(p.Category), catWidth),
		padRight(formatPrice(p.Price), priceWidth),
		padRight(formatCreated(p), dateWidth),
	)
	if selected {
		return styles.Selected.Width(m.width).Render(line)
	}
	return styles.Text.Render(line)
}
