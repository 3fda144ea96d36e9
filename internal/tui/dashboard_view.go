package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/format"
	"github.com/hartono/pantau/internal/layout"
	"github.com/hartono/pantau/internal/notify"
	"github.com/hartono/pantau/internal/tracker"
)

// DashboardView is the main presence screen: employee cards on the
// left, the notification feed on the right. Layout keys mutate the
// persistent preference store; the rendered shape follows its state.
type DashboardView struct {
	trk    *tracker.Tracker
	center *notify.Center
	lm     *layout.Manager

	areas   []string
	areaIdx int

	cursor       int
	width        int
	height       int
	confirmClear bool
	pollErr      error
}

func NewDashboardView(trk *tracker.Tracker, center *notify.Center, lm *layout.Manager) DashboardView {
	v := DashboardView{trk: trk, center: center, lm: lm}
	// Restore the persisted area filter into the differ.
	if area := lm.State().Area; area != "" {
		trk.SetAreaFilter(area)
	}
	return v
}

func (v *DashboardView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

// SetAreas installs the camera area list used by the filter cycle key.
func (v *DashboardView) SetAreas(areas []string) {
	v.areas = areas
	v.areaIdx = 0
	current := v.lm.State().Area
	for i, a := range areas {
		if a == current {
			v.areaIdx = i + 1 // slot 0 is "all areas"
		}
	}
}

func (v DashboardView) InputActive() bool { return v.confirmClear }

func (v DashboardView) Update(msg tea.Msg) (DashboardView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.confirmClear {
		switch key.String() {
		case "y":
			if err := v.center.Clear(); err != nil {
				applog.Error("notify_clear", err)
			}
		}
		v.confirmClear = false
		return v, nil
	}

	switch key.String() {
	case "j", "down":
		if v.cursor < len(v.trk.Filtered())-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "a":
		v.cycleArea()
	case "f":
		v.lm.ToggleFeed()
	case "p":
		v.lm.ToggleCapture()
	case "e":
		st := v.lm.State()
		if st.EmpExpanded {
			v.lm.MinimizeEmployees()
		} else {
			v.lm.ExpandEmployees()
		}
	case "n":
		if err := v.center.MarkAllRead(); err != nil {
			applog.Error("notify_mark_read", err)
		}
	case "m":
		v.center.LoadMore()
	case "o":
		v.cycleSort()
	case "C":
		v.confirmClear = true
	}
	return v, nil
}

var empSortModes = []string{"", "name", "status", "department"}

// cycleSort advances the employee ordering and persists it so the next
// run opens with the same arrangement.
func (v *DashboardView) cycleSort() {
	current := v.lm.State().EmpSort
	next := empSortModes[0]
	for i, mode := range empSortModes {
		if mode == current {
			next = empSortModes[(i+1)%len(empSortModes)]
			break
		}
	}
	v.lm.SetEmpSort(next)
	v.cursor = 0
}

// sortedEmployees applies the persisted ordering to a copy of the
// tracked subjects. The default keeps the backend's order.
func sortedEmployees(emps []api.TrackedSubject, mode string) []api.TrackedSubject {
	if mode == "" || len(emps) < 2 {
		return emps
	}
	out := append([]api.TrackedSubject(nil), emps...)
	sort.SliceStable(out, func(i, j int) bool {
		switch mode {
		case "status":
			if out[i].IsPresent != out[j].IsPresent {
				return out[i].IsPresent
			}
		case "department":
			if out[i].Department != out[j].Department {
				return out[i].Department < out[j].Department
			}
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// cycleArea advances the filter through "all" plus every known camera
// area, updating both the differ and the persisted preference.
func (v *DashboardView) cycleArea() {
	v.areaIdx = (v.areaIdx + 1) % (len(v.areas) + 1)
	area := ""
	if v.areaIdx > 0 {
		area = v.areas[v.areaIdx-1]
	}
	v.trk.SetAreaFilter(area)
	v.lm.SetArea(area)
	v.cursor = 0
}

func (v DashboardView) View() string {
	st := v.lm.State()

	empWidth := v.width
	if !st.FeedHidden {
		empWidth = v.width * ListWidthPct / 100
	}

	left := v.viewEmployees(empWidth, v.height)
	if st.FeedHidden {
		return left
	}

	feedWidth := v.width - empWidth - 3
	feedBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(feedWidth).
		Height(v.height - 2)
	right := feedBorder.Render(v.viewFeed(feedWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (v DashboardView) viewEmployees(width, height int) string {
	presentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	awayStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Reverse(true)
	headStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	st := v.lm.State()
	area := st.Area
	if area == "" {
		area = "all areas"
	}
	head := "Employees · " + area
	if st.EmpSort != "" {
		head += " · by " + st.EmpSort
	}
	b.WriteString(headStyle.Render(head) + "\n")
	if v.pollErr != nil {
		b.WriteString(awayStyle.Render(fmt.Sprintf("  backend unreachable: %v", v.pollErr)) + "\n")
	}

	emps := sortedEmployees(v.trk.Filtered(), st.EmpSort)
	if len(emps) == 0 {
		b.WriteString(dimStyle.Render("  No tracked employees."))
		return b.String()
	}

	max := height - 3
	if max < 1 {
		max = 1
	}
	for i, e := range emps {
		if i >= max {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(emps)-max)))
			break
		}
		dot := awayStyle.Render("○")
		seen := format.DurationAgo(e.SecondsSince)
		if e.IsPresent {
			dot = presentStyle.Render("●")
			seen = "present"
		} else if seen != "-" {
			seen = "away " + seen
		}
		cam := ""
		if e.CameraName != nil && *e.CameraName != "" {
			cam = " @ " + *e.CameraName
		}
		line := fmt.Sprintf(" %s %-20s %-14s %s%s", dot, clip(e.Name, 20), clip(e.Department, 14), seen, cam)
		if i == v.cursor {
			line = cursorStyle.Render(clip(line, width-1))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (v DashboardView) viewFeed(width int) string {
	headStyle := lipgloss.NewStyle().Bold(true)
	enterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	exitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	title := "Notifications"
	if n := v.center.Unread(); n > 0 {
		b.WriteString(headStyle.Render(fmt.Sprintf("%s (%d unread)", title, n)) + "\n\n")
	} else {
		b.WriteString(headStyle.Render(title) + "\n\n")
	}

	if v.confirmClear {
		b.WriteString(exitStyle.Render("Clear all notifications? [y/N]") + "\n\n")
	}

	items, more, err := v.center.Visible()
	if err != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("error: %v", err)))
		return b.String()
	}
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No notifications yet."))
		return b.String()
	}

	for _, n := range items {
		icon := dimStyle.Render("·")
		switch n.Kind {
		case string(notify.KindEnter):
			icon = enterStyle.Render("▲")
		case string(notify.KindExit):
			icon = exitStyle.Render("▼")
		}
		ts := dimStyle.Render(n.CreatedAt.Local().Format("15:04"))
		line := fmt.Sprintf("%s %s %s", icon, ts, clip(n.Message, width-10))
		if !n.Read {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(line + "\n")
	}
	if more {
		b.WriteString("\n" + dimStyle.Render("m: load more"))
	}
	return b.String()
}

func (v DashboardView) Help() string {
	return "j/k move · a area · o sort · f feed · p captures · e expand · n read all · m more · C clear"
}

func clip(s string, max int) string {
	if max <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
