package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/dashboard"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	linesPerItem  = 2
	emptyText     = "No notifications yet"
)

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

// render builds the screen as a string.
func (m Model) render() string {
	w, h := m.size()

	header := m.renderHeader(w)
	stats := m.renderStats()
	listHeader := m.renderListHeader(w)
	footer := m.renderFooter()

	used := lipgloss.Height(header) + lipgloss.Height(stats) + lipgloss.Height(listHeader) + lipgloss.Height(footer)
	list := m.renderList(w, max(h-used, linesPerItem))

	content := lipgloss.JoinVertical(lipgloss.Left, header, stats, listHeader, list, footer)

	if m.toasts.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

func (m Model) renderHeader(width int) string {
	left := styles.HeaderStyle.Render("Mosaic ERP")

	right := styles.StatLabelStyle.Render("Notifications")
	if badge := notify.Badge(m.state.UnreadCount); badge != "" {
		right += " " + styles.BadgeStyle.Render(badge)
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderStats() string {
	s := m.summary
	cards := []string{
		statCard("Total sales", dashboard.FormatCurrency(s.TotalSales)),
		statCard("Orders", fmt.Sprint(s.OrdersCount)),
		statCard("Inventory value", dashboard.FormatCurrency(s.InventoryValue)),
		statCard("Low stock", fmt.Sprint(len(s.LowStock))),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(label, value string) string {
	return styles.StatCardStyle.Render(
		styles.StatLabelStyle.Render(label) + "\n" + styles.StatValueStyle.Render(value),
	)
}

func (m Model) renderListHeader(width int) string {
	title := styles.HeaderStyle.Render(fmt.Sprintf("Notifications (%d)", len(m.state.Notifications)))

	var hints []string
	if m.state.UnreadCount > 0 {
		hints = append(hints, "a: Mark all as read")
	}
	if len(m.state.Notifications) > 0 {
		hints = append(hints, "C: Clear all")
	}
	right := styles.HelpStyle.Render(strings.Join(hints, " • "))

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return title + strings.Repeat(" ", gap) + right
}

func (m Model) renderList(width, height int) string {
	items := m.state.Notifications
	if len(items) == 0 {
		return styles.EmptyStyle.Render(emptyText)
	}

	visible := max(height/linesPerItem, 1)
	start := max(m.cursor-visible+1, 0)
	end := min(start+visible, len(items))

	now := m.opts.Now()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderItem(items[i], i == m.cursor, width, now))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderItem(n notify.Notification, selected bool, width int, now time.Time) string {
	marker := " "
	titleStyle := styles.ItemReadStyle
	if !n.Read {
		marker = lipgloss.NewStyle().Foreground(styles.ColorPrimary).Render("●")
		titleStyle = styles.ItemUnreadStyle
	}

	icon := lipgloss.NewStyle().Foreground(styles.TypeColor(string(n.Type))).Render(typeIcon(n.Type))
	left := marker + " " + icon + " " + titleStyle.Render(n.Title)
	ago := styles.ItemTimeStyle.Render(notify.TimeAgo(n.CreatedAt, now))

	inner := max(width-4, 20)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(ago), 1)
	line1 := left + strings.Repeat(" ", gap) + ago
	line2 := "    " + styles.ItemMessageStyle.Render(truncate(n.Message, inner-4))

	body := line1 + "\n" + line2
	if selected {
		return styles.ItemSelectedStyle.Render(body)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(body)
}

func (m Model) renderFooter() string {
	var lines []string
	if m.status != "" {
		lines = append(lines, styles.FormErrorStyle.PaddingLeft(1).Render(m.status))
	}
	lines = append(lines, styles.HelpStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
