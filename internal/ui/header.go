package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: sync state, catalog stats and the
// backend address.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shelf", styles.WarningText.Bold(true))}

	// Sync indicator
	switch {
	case m.loading():
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Syncing", styles.WarningText))
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case m.snapshot.ErrorMessage() != "":
		parts = append(parts, bg.Render("● ERROR", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● SYNCED", styles.SuccessText))
	}

	stats := m.snapshot.Stats()
	label := func(long, short string) string {
		if compact {
			return short
		}
		return long
	}
	parts = append(parts,
		bg.Pair(label("Products:", "P:"), styles.MutedText, fmt.Sprintf("%d", stats.Count), styles.Text),
		bg.Pair(label("Value:", "V:"), styles.MutedText, formatPrice(stats.TotalValue), styles.SuccessText),
		bg.Pair(label("Categories:", "C:"), styles.MutedText, fmt.Sprintf("%d", stats.Categories), styles.InfoText),
	)

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(formatAgo(m.snapshot.LastUpdated, m.now()), styles.MutedText))
	}

	// While offline the header carries the underlying cause; the banner only
	// has the generic message.
	if m.snapshot.IsOffline() && m.snapshot.LastError != nil && !compact {
		parts = append(parts, bg.Render(truncate(m.snapshot.LastError.Error(), 48), styles.DangerText))
	} else if m.apiURL != "" && !compact {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, bg.Pair(h.Key, styles.WarningText, h.Desc, styles.MutedText))
	}
	if m.width >= LayoutCompactWidth {
		for _, b := range []struct{ key, desc string }{{"r", "Refresh"}, {"L", "Log"}, {"T", "Theme"}} {
			hints = append(hints, bg.Pair(b.key, styles.WarningText, b.desc, styles.MutedText))
		}
	}

	return styles.Footer.Width(m.width).Render(bg.Join(hints, "   "))
}

// renderBanner renders the error banner, or nothing when there is no error.
// The banner stays until a later operation succeeds.
func (m Model) renderBanner() string {
	msg := m.snapshot.ErrorMessage()
	if msg == "" {
		return ""
	}
	styles := m.theme.Styles()
	text := "Error: " + msg
	if m.snapshot.IsOffline() {
		text += fmt.Sprintf(" (%d failed refreshes)", m.snapshot.ConsecutiveFailures)
	}
	return styles.Banner.Width(m.width).Render(truncate(text, maxInt(10, m.width-2)))
}

// renderLogsHeader renders the title line of the log overlay.
func (m Model) renderLogsHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	path := ""
	if m.config != nil {
		path = m.config.LogPath
	}
	parts := []string{
		bg.Render("shelf", styles.WarningText.Bold(true)),
		bg.Render("Log", styles.AccentText),
		bg.Render(truncateMiddle(path, maxInt(10, m.width/2)), styles.MutedText),
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}
