package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bitvfx/pix-go/internal/state"
)

// renderInbox draws the share list with header and footer.
func (m Model) renderInbox() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	listHeight := m.height - 4
	if listHeight < 1 {
		listHeight = 1
	}

	entries := m.snapshot.Entries
	if len(entries) == 0 {
		empty := "Inbox is empty."
		if m.snapshot.LastUpdated.IsZero() {
			empty = "Loading inbox..."
		}
		b.WriteString(m.styles.Muted.Render(empty))
		b.WriteString(strings.Repeat("\n", listHeight))
		b.WriteString(m.renderFooter())
		return b.String()
	}

	start := 0
	if m.selected >= listHeight {
		start = m.selected - listHeight + 1
	}
	for i := start; i < len(entries) && i < start+listHeight; i++ {
		b.WriteString(m.renderEntryLine(entries[i], i == m.selected))
		b.WriteString("\n")
	}
	for i := len(entries) - start; i < listHeight; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderEntryLine renders a single inbox row.
func (m Model) renderEntryLine(entry state.Entry, selected bool) string {
	marker := "  "
	if !entry.Viewed {
		marker = m.styles.Accent.Render("● ")
	}

	sender := truncate(entry.Sender, 18)
	message := truncate(firstLine(entry.Message), max(10, m.width-36))

	line := fmt.Sprintf("%s%-18s  %s", marker, sender, message)
	if entry.Attachments > 0 {
		line += m.styles.Muted.Render(fmt.Sprintf("  [%d att]", entry.Attachments))
	}

	switch {
	case selected:
		return m.styles.Selected.Render(padRight(line, m.width))
	case !entry.Viewed:
		return m.styles.Unread.Render(line)
	default:
		return m.styles.Text.Render(line)
	}
}

// renderHeader draws the title bar with project name and unread count.
func (m Model) renderHeader() string {
	title := m.styles.Header.Render("pixfeed")
	project := m.styles.Title.Render(m.snapshot.Project)
	unread := m.styles.Muted.Render(fmt.Sprintf("%d unread / %d", m.snapshot.Unread(), len(m.snapshot.Entries)))

	status := ""
	switch {
	case m.snapshot.IsOffline():
		status = m.styles.Danger.Render("OFFLINE")
	case m.snapshot.LastError != nil:
		status = m.styles.Warning.Render("retrying")
	case !m.snapshot.LastUpdated.IsZero():
		status = m.styles.Muted.Render("updated " + relativeTime(m.snapshot.LastUpdated))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ", project, "  ", unread, "  ", status)
}

// renderFooter draws the key hints and last action status.
func (m Model) renderFooter() string {
	hints := "enter open · m read · d delete · r refresh · T theme · h help · q quit"
	line := m.styles.Footer.Render(hints)
	if m.statusLine != "" {
		line += "  " + m.styles.Accent.Render(m.statusLine)
	}
	return line
}

// renderDetail draws the full-screen view of the selected share.
func (m Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Width(m.width - 2).Render(m.detailViewport.View()))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("esc back · ↑/↓ scroll · d delete · q quit"))
	return b.String()
}

// renderDetailBody formats one share for the detail viewport.
func (m Model) renderDetailBody(entry state.Entry) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("From: " + entry.Sender))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Attachments: %d", entry.Attachments)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render(entry.Message))
	return b.String()
}

// renderPicker draws the project selection list shown before a project
// is active.
func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("pixfeed"))
	b.WriteString("  ")
	b.WriteString(m.styles.Title.Render("choose a project"))
	b.WriteString("\n\n")

	for i, name := range m.choices {
		line := "  " + name
		if i == m.pickerIndex {
			line = "> " + name
			b.WriteString(m.styles.Selected.Render(padRight(line, m.width)))
		} else {
			b.WriteString(m.styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := "enter select · ↑/↓ move · q quit"
	if m.pickerLoading {
		hints = "loading..."
	}
	b.WriteString(m.styles.Footer.Render(hints))
	if m.statusLine != "" {
		b.WriteString("  " + m.styles.Accent.Render(m.statusLine))
	}
	return b.String()
}

// renderHelp draws the help overlay.
func (m Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"enter", "Open the selected share (marks it read)"},
		{"m", "Mark the selected share as read"},
		{"d", "Delete the selected share from the inbox"},
		{"r", "Refresh the inbox now"},
		{"g / G", "Jump to top / bottom"},
		{"↑/k ↓/j", "Move selection"},
		{"T", "Cycle color theme"},
		{"esc", "Back to the inbox"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("pixfeed keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.styles.Accent.Render(padRight(r.key, 9)),
			m.styles.Text.Render(r.desc)))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("press h or esc to close"))
	return b.String()
}

// truncate shortens s to width runes, ellipsized.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// firstLine keeps multi-line messages to one row in the list.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// relativeTime renders a compact "Ns/Nm ago" stamp for the header.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
