package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type ViewType int

const (
	ViewDashboard ViewType = iota
	ViewReports
	ViewCameras
	ViewCaptures
	ViewSystem
)

// ListWidthPct is the percentage of terminal width used for the left
// (list) pane on split views.
const ListWidthPct = 55

var viewNames = []string{"Dashboard", "Reports", "Cameras", "Captures", "System"}

func renderNavbar(active ViewType, connected bool, unread int, stats string, width int) string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Underline(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	badgeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	connStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	var tabs string
	for i, name := range viewNames {
		if i > 0 {
			tabs += inactiveStyle.Render(" │ ")
		}
		badge := ""
		if ViewType(i) == ViewDashboard && unread > 0 {
			badge = fmt.Sprintf(" (%d)", unread)
		}
		if ViewType(i) == active {
			tabs += activeStyle.Render(name + badge)
		} else {
			tabs += inactiveStyle.Render(name) + badgeStyle.Render(badge)
		}
	}

	left := " " + tabs
	if stats != "" {
		left += "   " + statsStyle.Render(stats)
	}

	var conn string
	if connected {
		conn = connStyle.Render("● live")
	} else {
		conn = connStyle.Render("○ reconnecting")
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(conn) - 2
	if gap < 1 {
		gap = 1
	}
	padding := lipgloss.NewStyle().Width(gap)

	return left + padding.Render("") + conn + " "
}
