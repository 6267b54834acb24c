package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/editor"
)

// textFields are the form fields edited through a text input, in tab order.
// The category selector follows them.
var textFields = [...]catalog.Field{catalog.FieldName, catalog.FieldPrice, catalog.FieldDescription}

// productForm holds the widgets of the product form. The draft itself lives
// in the editor session; the inputs mirror it.
type productForm struct {
	inputs   [len(textFields)]textinput.Model
	category catalog.Category
	focusIdx int // 0..len(inputs); the last index is the category selector
}

func newProductForm() productForm {
	var f productForm
	placeholders := [...]string{"Wireless Mouse", "24.99", "Short description"}
	limits := [...]int{120, 16, 500}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = LayoutFormWidth - 20
		f.inputs[i] = ti
	}
	f.category = catalog.DefaultCategory
	return f
}

// load copies a draft into the widgets.
func (f *productForm) load(d catalog.Draft) {
	for i, field := range textFields {
		f.inputs[i].SetValue(d.Get(field))
		f.inputs[i].CursorEnd()
	}
	f.category = catalog.DefaultCategory
	if c, ok := catalog.ParseCategory(d.Category); ok {
		f.category = c
	}
}

// focus moves focus to the given field index and returns the blink command.
func (f *productForm) focus(idx int) tea.Cmd {
	n := len(f.inputs) + 1
	f.focusIdx = ((idx % n) + n) % n
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focusIdx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *productForm) blurAll() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *productForm) onCategory() bool {
	return f.focusIdx == len(f.inputs)
}

func (f *productForm) resize(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = maxInt(10, width-20)
	}
}

// update forwards a message to the focused text input.
func (f productForm) update(msg tea.Msg) (productForm, tea.Cmd) {
	if f.onCategory() {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	return f, cmd
}

func (m Model) formWidth() int {
	return min(LayoutFormWidth, maxInt(30, m.width-4))
}

// openForm applies a session transition and prepares the widgets for it.
func (m Model) openForm(open func(s *editor.Session)) (tea.Model, tea.Cmd) {
	open(&m.session)
	m.form.load(m.session.Draft())
	return m, m.form.focus(0)
}

// handleFormKey processes keys while the product form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Cancel is always allowed; a result arriving afterwards is dropped by
	// the session.
	if key.Matches(msg, m.keys.Escape) {
		m.session.Cancel()
		m.form.blurAll()
		return m, nil
	}

	// Inputs are frozen until the store reports back.
	if m.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()

	case key.Matches(msg, m.keys.NextField):
		return m, m.form.focus(m.form.focusIdx + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.focus(m.form.focusIdx - 1)
	}

	if m.form.onCategory() {
		step := 0
		switch {
		case key.Matches(msg, m.keys.NextCategory):
			step = 1
		case key.Matches(msg, m.keys.PrevCategory):
			step = -1
		}
		if step != 0 {
			m.form.category = catalog.NextCategory(m.form.category, step)
			m.setField(catalog.FieldCategory, string(m.form.category))
		}
		return m, nil
	}

	idx := m.form.focusIdx
	var cmd tea.Cmd
	m.form.inputs[idx], cmd = m.form.inputs[idx].Update(msg)
	m.setField(textFields[idx], m.form.inputs[idx].Value())
	return m, cmd
}

// fieldIndex maps a draft field to its form focus index.
func fieldIndex(f catalog.Field) int {
	for i, tf := range textFields {
		if tf == f {
			return i
		}
	}
	return len(textFields)
}

func (m *Model) setField(f catalog.Field, value string) {
	if err := m.session.UpdateField(f, value); err != nil {
		m.logger.Warn(m.ctx, "form field update rejected", "field", f.String(), "error", err)
	}
}

// submitForm starts a submission. The remote work runs in a command and the
// result comes back as submitDoneMsg.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	sub, err := m.session.Begin()
	if err != nil {
		return m, nil
	}
	m.saving = true
	m.form.blurAll()
	return m, submitCmd(m.ctx, m.store, sub)
}

// handleSubmitDone finishes a submission. On success the session resets and
// the form closes; on failure the draft stays and the banner shows why.
func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	m.applySnapshot(msg.snapshot)

	if msg.err != nil {
		if !m.session.Visible() {
			m.logger.Warn(m.ctx, "save failed", "target", msg.sub.TargetID, "error", msg.err)
			return m, nil
		}
		var vErr *catalog.ValidationError
		if errors.As(msg.err, &vErr) {
			return m, m.form.focus(fieldIndex(vErr.Field))
		}
		m.logger.Warn(m.ctx, "save failed", "target", msg.sub.TargetID, "error", msg.err)
		return m, m.form.focus(m.form.focusIdx)
	}
	if !m.session.Finish(msg.sub, msg.err) {
		m.logger.Debug(m.ctx, "ignoring stale submission result", "target", msg.sub.TargetID)
		return m, nil
	}
	if msg.sub.Editing() {
		m.selectedID = msg.sub.TargetID
		m.restoreSelection()
	}
	return m, nil
}

// renderForm renders the product form panel.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	width := m.formWidth()

	title := ternary(m.session.Mode() == editor.EditingExisting, "Edit Product", "Add New Product")

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", maxInt(10, width-6))))
	b.WriteString("\n\n")

	labels := [...]string{"Name", "Price", "Description"}
	labelStyle := lipgloss.NewStyle().Width(14)
	for i := range m.form.inputs {
		label := styles.MutedText
		if m.form.focusIdx == i && !m.saving {
			label = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Render(label.Render(labels[i])))
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}

	catLabel := styles.MutedText
	if m.form.onCategory() && !m.saving {
		catLabel = styles.AccentText.Bold(true)
	}
	b.WriteString(labelStyle.Render(catLabel.Render("Category")))
	b.WriteString(styles.FaintText.Render("< "))
	b.WriteString(styles.CategoryStyle(m.form.category).Render(string(m.form.category)))
	b.WriteString(styles.FaintText.Render(" >"))
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(m.spinner.View() + " " + styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("tab next field · ←/→ category · enter save · esc cancel"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(width).
		Render(b.String())
}
