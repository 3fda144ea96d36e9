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
)

type systemActionMsg struct {
	status string
	err    error
}

// Latency and resource thresholds mirror the backend dashboard's
// health coloring.
const (
	latencyGoodMS  = 50
	latencyWarnMS  = 150
	gpuRedPercent  = 93
	memoryRedSlack = 500 << 20
)

// SystemView shows backend health and the tracking schedule machine.
type SystemView struct {
	client *api.Client

	info     *api.SystemInfo
	health   *api.SystemHealth
	schedule *api.ScheduleState
	params   *api.ConfigParams

	width  int
	height int
	status string
	err    error
}

func NewSystemView(client *api.Client) SystemView {
	return SystemView{client: client}
}

func (v *SystemView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

func (v *SystemView) SetInfo(info *api.SystemInfo, health *api.SystemHealth) {
	v.info = info
	v.health = health
}

func (v *SystemView) SetSchedule(st *api.ScheduleState, params *api.ConfigParams) {
	v.schedule = st
	v.params = params
}

func systemAction(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			return systemActionMsg{err: err}
		}
		return systemActionMsg{status: status}
	}
}

func (v SystemView) Update(msg tea.Msg) (SystemView, tea.Cmd) {
	switch msg := msg.(type) {
	case systemActionMsg:
		if msg.err != nil {
			v.status = fmt.Sprintf("error: %v", msg.err)
			return v, nil
		}
		v.status = msg.status
		return v, loadSchedule(v.client)

	case tea.KeyMsg:
		client := v.client
		switch msg.String() {
		case "T":
			if v.schedule != nil && v.schedule.TrackingActive {
				return v, systemAction("Tracking stopped", client.StopTracking)
			}
			return v, systemAction("Tracking started", client.StartTracking)
		case "A":
			if v.schedule == nil {
				return v, nil
			}
			auto := !v.schedule.AutoSchedule
			return v, systemAction(fmt.Sprintf("Auto schedule: %v", auto), func(ctx context.Context) error {
				_, err := client.SetScheduleMode(ctx, api.ScheduleUpdate{AutoSchedule: &auto})
				return err
			})
		case "S":
			if v.schedule == nil {
				return v, nil
			}
			suppress := !v.schedule.SuppressAlerts
			return v, systemAction(fmt.Sprintf("Suppress alerts: %v", suppress), func(ctx context.Context) error {
				_, err := client.SetScheduleMode(ctx, api.ScheduleUpdate{SuppressAlerts: &suppress})
				return err
			})
		case "P":
			return v, systemAction("Paused for 30 minutes", func(ctx context.Context) error {
				_, err := client.PauseSchedule(ctx, 30, "manual")
				return err
			})
		case "R":
			return v, systemAction("Pause cleared", func(ctx context.Context) error {
				_, err := client.SetScheduleMode(ctx, api.ScheduleUpdate{ClearPause: true})
				return err
			})
		case "E":
			return v, systemAction("Embeddings reloaded", client.ReloadEmbeddings)
		}
	}
	return v, nil
}

func (v SystemView) View() string {
	headStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	goodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var b strings.Builder
	b.WriteString(headStyle.Render("System") + "\n\n")

	if v.err != nil {
		b.WriteString(badStyle.Render(fmt.Sprintf("error: %v", v.err)) + "\n")
	}

	if v.info != nil {
		b.WriteString(labelStyle.Render("Internet") + "  ")
		if v.info.InternetMS == nil {
			b.WriteString(badStyle.Render("offline") + "\n")
		} else {
			ms := *v.info.InternetMS
			line := fmt.Sprintf("%.0f ms", ms)
			switch {
			case ms <= latencyGoodMS:
				b.WriteString(goodStyle.Render(line) + "\n")
			case ms <= latencyWarnMS:
				b.WriteString(warnStyle.Render(line) + "\n")
			default:
				b.WriteString(badStyle.Render(line) + "\n")
			}
		}

		b.WriteString(labelStyle.Render("GPU") + "       ")
		if v.info.GPUUsagePercent == nil {
			b.WriteString(dimStyle.Render("n/a") + "\n")
		} else if *v.info.GPUUsagePercent >= gpuRedPercent {
			b.WriteString(badStyle.Render(fmt.Sprintf("%d%%", *v.info.GPUUsagePercent)) + "\n")
		} else {
			b.WriteString(fmt.Sprintf("%d%%\n", *v.info.GPUUsagePercent))
		}

		b.WriteString(labelStyle.Render("Memory") + "    ")
		if v.info.MemoryUsedBytes == nil || v.info.MemoryTotalBytes == nil {
			b.WriteString(dimStyle.Render("n/a") + "\n")
		} else {
			used, total := *v.info.MemoryUsedBytes, *v.info.MemoryTotalBytes
			line := fmt.Sprintf("%s / %s", format.Bytes(used), format.Bytes(total))
			if total-used <= memoryRedSlack {
				b.WriteString(badStyle.Render(line) + "\n")
			} else {
				b.WriteString(line + "\n")
			}
		}
	}

	if v.health != nil {
		b.WriteString(labelStyle.Render("Backend") + "   ")
		up := time.Duration(v.health.UptimeSeconds) * time.Second
		b.WriteString(fmt.Sprintf("%s, up %s\n", v.health.Status, up.Truncate(time.Second)))
	}

	if v.schedule != nil {
		b.WriteString("\n" + headStyle.Render("Schedule") + "\n\n")
		st := v.schedule
		b.WriteString(labelStyle.Render("Tracking") + "  ")
		if st.TrackingActive {
			b.WriteString(goodStyle.Render("active") + "\n")
		} else {
			b.WriteString(dimStyle.Render("stopped") + "\n")
		}
		mode := "manual"
		if st.AutoSchedule {
			mode = "auto"
		}
		b.WriteString(labelStyle.Render("Mode") + "      " + mode + "\n")
		b.WriteString(labelStyle.Render("Hours") + "     " + st.WorkHours)
		if st.LunchBreak != "" {
			b.WriteString(dimStyle.Render("  lunch " + st.LunchBreak))
		}
		b.WriteString("\n")
		if st.SuppressAlerts {
			b.WriteString(labelStyle.Render("Alerts") + "    " + warnStyle.Render("suppressed") + "\n")
		}
		if st.PauseUntil != nil {
			kind := ""
			if st.PauseKind != nil {
				kind = " (" + *st.PauseKind + ")"
			}
			b.WriteString(labelStyle.Render("Paused") + "    until " + format.Ts(*st.PauseUntil) + kind + "\n")
		}
	}

	if v.params != nil {
		p := v.params
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf(
			"mark-absent: %v (%d min before end) · alert interval %ds · mute after %dh away",
			p.MarkAbsentEnabled, p.MarkAbsentOffsetMinutes, p.AlertMinIntervalSec, p.AwayMuteThresholdHours)) + "\n")
	}

	if v.status != "" {
		b.WriteString("\n" + dimStyle.Render(v.status))
	}
	return b.String()
}

func (v SystemView) Help() string {
	return "T tracking · A auto · S suppress · P pause 30m · R resume · E embeddings"
}
