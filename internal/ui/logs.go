package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

// loadLogs reads the tail of shelf's own log file.
func (m Model) loadLogs() tea.Cmd {
	if m.config == nil || m.config.LogPath == "" {
		return func() tea.Msg {
			return logLinesMsg{lines: []string{"No log file configured."}}
		}
	}
	path := m.config.LogPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, logtail.Options{MaxLines: LogOverlayLines})
		return logLinesMsg{lines: lines, err: err}
	}
}

// handleLogsKey processes keys while the log overlay is shown.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadLogs()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// renderLogLines colors lines by their slog level.
func (m Model) renderLogLines(lines []string) string {
	styles := m.theme.Styles()
	if len(lines) == 0 {
		return styles.MutedText.Render("Log is empty.")
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.Contains(line, "level=ERROR"):
			out = append(out, styles.DangerText.Render(line))
		case strings.Contains(line, "level=WARN"):
			out = append(out, styles.WarningText.Render(line))
		case strings.Contains(line, "level=DEBUG"):
			out = append(out, styles.FaintText.Render(line))
		default:
			out = append(out, styles.Text.Render(line))
		}
	}
	return strings.Join(out, "\n")
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderLogsHeader())
	b.WriteString("\n")

	if m.logErr != nil {
		b.WriteString(lipgloss.Place(m.width, maxInt(1, m.height-2), lipgloss.Center, lipgloss.Center,
			styles.DangerText.Render("Cannot read log: "+m.logErr.Error())))
	} else {
		b.WriteString(m.logViewport.View())
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Width(m.width).Render("esc close · r reload · j/k scroll · g/G top/bottom"))
	return b.String()
}
