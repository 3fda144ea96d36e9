package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/format"
	"github.com/hartono/pantau/internal/report"
)

type reportMode int

const (
	modeAttendance reportMode = iota
	modeAlerts
)

type reportLoadedMsg struct {
	mode       reportMode
	attendance []api.AttendanceRow
	alerts     []api.AlertRow
	err        error
}

type filterDebouncedMsg struct{}

var attendanceCols = []string{"date", "employee_code", "employee_name", "first_in_ts", "last_out_ts", "status", "violation_count"}
var alertCols = []string{"timestamp", "employee_code", "employee_name", "alert_type", "message"}

// rangePresets are the quick date filters cycled by the F key.
var rangePresets = []struct {
	name string
	days int // 0 = today only, -1 = no bound
}{
	{"today", 0},
	{"last 7 days", 7},
	{"last 30 days", 30},
	{"all", -1},
}

// ReportsView renders the attendance and alert tables. Sorting and
// paging act on the typed row controllers; the screen is a projection
// of their state, never an input to it.
type ReportsView struct {
	client     *api.Client
	attendance *report.Table[api.AttendanceRow]
	alerts     *report.Table[api.AlertRow]

	mode      reportMode
	colCursor int
	preset    int
	filter    api.ReportFilter

	debounce *report.Debouncer
	reloadCh chan struct{}

	width   int
	height  int
	loading bool
	status  string
	err     error
}

func NewReportsView(client *api.Client, filterDebounce time.Duration) ReportsView {
	v := ReportsView{
		client:     client,
		attendance: report.NewAttendanceTable(),
		alerts:     report.NewAlertTable(),
		preset:     len(rangePresets) - 1,
		debounce:   report.NewDebouncer(filterDebounce),
		reloadCh:   make(chan struct{}, 1),
	}
	return v
}

func (v *ReportsView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

func (v *ReportsView) Reload() tea.Cmd {
	v.loading = true
	client := v.client
	mode := v.mode
	filter := v.filter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if mode == modeAttendance {
			rows, err := client.AttendanceReport(ctx, filter)
			return reportLoadedMsg{mode: mode, attendance: rows, err: err}
		}
		rows, err := client.AlertReport(ctx, filter)
		return reportLoadedMsg{mode: mode, alerts: rows, err: err}
	}
}

// listenFilter waits for the debouncer to fire after filter edits.
func (v *ReportsView) listenFilter() tea.Cmd {
	ch := v.reloadCh
	return func() tea.Msg {
		<-ch
		return filterDebouncedMsg{}
	}
}

func (v *ReportsView) cols() []string {
	if v.mode == modeAttendance {
		return attendanceCols
	}
	return alertCols
}

func (v ReportsView) Update(msg tea.Msg) (ReportsView, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.mode != v.mode {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		if v.mode == modeAttendance {
			v.attendance.SetRows(msg.attendance)
		} else {
			v.alerts.SetRows(msg.alerts)
		}
		return v, nil

	case filterDebouncedMsg:
		return v, v.Reload()

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			if v.mode == modeAttendance {
				v.mode = modeAlerts
			} else {
				v.mode = modeAttendance
			}
			v.colCursor = 0
			v.status = ""
			return v, v.Reload()
		case "h", "left":
			if v.colCursor > 0 {
				v.colCursor--
			}
		case "l", "right":
			if v.colCursor < len(v.cols())-1 {
				v.colCursor++
			}
		case "s", "enter":
			key := v.cols()[v.colCursor]
			if v.mode == modeAttendance {
				v.attendance.ToggleSort(key)
			} else {
				v.alerts.ToggleSort(key)
			}
		case "n", "pgdown":
			if v.mode == modeAttendance {
				v.attendance.Next()
			} else {
				v.alerts.Next()
			}
		case "p", "pgup":
			if v.mode == modeAttendance {
				v.attendance.Prev()
			} else {
				v.alerts.Prev()
			}
		case "F":
			v.preset = (v.preset + 1) % len(rangePresets)
			v.applyPreset()
			ch := v.reloadCh
			v.debounce.Trigger(func() {
				select {
				case ch <- struct{}{}:
				default:
				}
			})
			return v, v.listenFilter()
		case "r":
			return v, v.Reload()
		case "x":
			if v.mode == modeAttendance {
				v.status = "Export: " + v.client.AttendanceExportURL(v.filter)
			} else {
				v.status = "Export: " + v.client.AlertExportURL(v.filter)
			}
		}
	}
	return v, nil
}

func (v *ReportsView) applyPreset() {
	p := rangePresets[v.preset]
	today := time.Now().Format("2006-01-02")
	switch {
	case p.days < 0:
		v.filter.From, v.filter.To = "", ""
	case p.days == 0:
		v.filter.From, v.filter.To = today, today
	default:
		v.filter.From = time.Now().AddDate(0, 0, -p.days).Format("2006-01-02")
		v.filter.To = today
	}
}

func (v ReportsView) View() string {
	headStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	colStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeColStyle := lipgloss.NewStyle().Bold(true).Underline(true)
	sortedColStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var b strings.Builder
	title := "Attendance"
	if v.mode == modeAlerts {
		title = "Alert Log"
	}
	b.WriteString(headStyle.Render(title) + dimStyle.Render("  · filter: "+rangePresets[v.preset].name) + "\n\n")

	if v.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error: %v", v.err)) + "\n")
		return b.String()
	}
	if v.loading {
		b.WriteString(dimStyle.Render("Loading...") + "\n")
	}

	sortKey, dir := v.sortState()
	var header string
	for i, col := range v.cols() {
		label := col
		if col == sortKey {
			if dir == report.Asc {
				label += " ▴"
			} else {
				label += " ▾"
			}
		}
		cell := colStyle.Render(label)
		if i == v.colCursor {
			cell = activeColStyle.Render(label)
		} else if col == sortKey {
			cell = sortedColStyle.Render(label)
		}
		if i > 0 {
			header += dimStyle.Render(" │ ")
		}
		header += cell
	}
	b.WriteString(header + "\n")

	var info report.PageInfo
	if v.mode == modeAttendance {
		var rows []api.AttendanceRow
		rows, info = v.attendance.Page()
		for _, r := range rows {
			b.WriteString(renderAttendanceRow(r) + "\n")
		}
	} else {
		var rows []api.AlertRow
		rows, info = v.alerts.Page()
		for _, r := range rows {
			b.WriteString(renderAlertRow(r) + "\n")
		}
	}
	if info.TotalRows == 0 && !v.loading {
		b.WriteString(dimStyle.Render("No rows.") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("Page %d/%d · %d rows", info.Page, info.TotalPages, info.TotalRows)))
	if v.status != "" {
		b.WriteString("\n" + dimStyle.Render(v.status))
	}
	return b.String()
}

func (v ReportsView) sortState() (string, report.Dir) {
	if v.mode == modeAttendance {
		return v.attendance.Sort()
	}
	return v.alerts.Sort()
}

func renderAttendanceRow(r api.AttendanceRow) string {
	date := "-"
	if r.Date != nil {
		date = *r.Date
	}
	return fmt.Sprintf(" %-10s  %-10s  %-20s  %-8s  %-8s  %-10s  %d",
		date, clip(r.EmployeeCode, 10), clip(r.EmployeeName, 20),
		tsOrDash(r.FirstInTS), tsOrDash(r.LastOutTS), r.Status, r.ViolationCount)
}

func renderAlertRow(r api.AlertRow) string {
	ts := "-"
	if r.Timestamp != nil {
		ts = format.Ts(*r.Timestamp)
	}
	code, name, msg := "-", "-", ""
	if r.EmployeeCode != nil {
		code = *r.EmployeeCode
	}
	if r.EmployeeName != nil {
		name = *r.EmployeeName
	}
	if r.Message != nil {
		msg = *r.Message
	}
	return fmt.Sprintf(" %-16s  %-10s  %-20s  %-6s  %s",
		ts, clip(code, 10), clip(name, 20), format.AlertType(r.AlertType), clip(msg, 48))
}

func tsOrDash(ts *string) string {
	if ts == nil {
		return "-"
	}
	return format.TimeOnly(*ts)
}

func (v ReportsView) Help() string {
	return "t table · h/l column · s sort · n/p page · F range · r reload · x export url"
}
