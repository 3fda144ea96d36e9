package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/format"
	"github.com/hartono/pantau/internal/layout"
	"github.com/hartono/pantau/internal/stream"
)

const captureListLimit = 50

type capturesLoadedMsg struct {
	latest   []api.CameraCapture
	captures []api.Capture
	err      error
}

type captureDoneMsg struct {
	capture *api.Capture
	err     error
}

type capturesDeletedMsg struct {
	result *api.DeleteCapturesResult
	err    error
}

// CapturesView shows the per-camera latest frames and the saved
// capture log, and drives manual captures.
type CapturesView struct {
	client  *api.Client
	session *stream.Session
	lm      *layout.Manager

	latest   []api.CameraCapture
	captures []api.Capture

	cursor        int
	width         int
	height        int
	loading       bool
	status        string
	err           error
	confirmDelete string // delete date pending confirmation, "" when idle
}

func NewCapturesView(client *api.Client, sess *stream.Session, lm *layout.Manager) CapturesView {
	return CapturesView{client: client, session: sess, lm: lm}
}

func (v *CapturesView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

func (v CapturesView) InputActive() bool { return v.confirmDelete != "" }

func (v *CapturesView) Reload() tea.Cmd {
	v.loading = true
	client := v.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		latest, err := client.LatestCaptures(ctx)
		if err != nil {
			return capturesLoadedMsg{err: err}
		}
		captures, err := client.Captures(ctx, captureListLimit)
		return capturesLoadedMsg{latest: latest, captures: captures, err: err}
	}
}

func (v *CapturesView) doCapture() tea.Cmd {
	st := v.lm.State()
	camID := st.CaptureCam
	if camID == 0 && len(v.latest) > 0 {
		camID = v.latest[0].CamID
	}
	area := ""
	for _, c := range v.latest {
		if c.CamID == camID {
			area = c.Area
			break
		}
	}
	client := v.client
	sess := v.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		saved, err := sess.Capture(ctx, client, camID, area, "manual")
		return captureDoneMsg{capture: saved, err: err}
	}
}

// deleteDate picks the date whose captures the delete key targets:
// the selected row's date, falling back to today.
func (v *CapturesView) deleteDate() string {
	if v.cursor >= 0 && v.cursor < len(v.captures) {
		if ts := v.captures[v.cursor].Timestamp; ts != nil && len(*ts) >= 10 {
			return (*ts)[:10]
		}
	}
	return time.Now().Format("2006-01-02")
}

func (v *CapturesView) doDelete(date string) tea.Cmd {
	client := v.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res, err := client.DeleteCaptures(ctx, date, true)
		return capturesDeletedMsg{result: res, err: err}
	}
}

func (v CapturesView) Update(msg tea.Msg) (CapturesView, tea.Cmd) {
	switch msg := msg.(type) {
	case capturesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.latest = msg.latest
		v.captures = msg.captures
		if v.cursor >= len(v.captures) {
			v.cursor = 0
		}
		return v, nil

	case captureDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, stream.ErrNoFrame) {
				v.status = "No frame available"
			} else {
				v.status = fmt.Sprintf("capture: %v", msg.err)
			}
			return v, nil
		}
		v.status = "Capture saved: " + msg.capture.File
		return v, v.Reload()

	case capturesDeletedMsg:
		if msg.err != nil {
			v.status = fmt.Sprintf("delete: %v", msg.err)
			return v, nil
		}
		v.status = fmt.Sprintf("Removed %d files, %d log rows", msg.result.FilesRemoved, msg.result.LogRemoved)
		return v, v.Reload()

	case tea.KeyMsg:
		if v.confirmDelete != "" {
			date := v.confirmDelete
			v.confirmDelete = ""
			if msg.String() == "y" {
				return v, v.doDelete(date)
			}
			v.status = "Delete cancelled"
			return v, nil
		}

		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.captures)-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "c":
			v.status = "Capturing..."
			return v, v.doCapture()
		case "d":
			v.confirmDelete = v.deleteDate()
		case "r":
			return v, v.Reload()
		}
	}
	return v, nil
}

func (v CapturesView) View() string {
	headStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Reverse(true)

	var b strings.Builder
	b.WriteString(headStyle.Render("Captures") + "\n\n")

	if v.err != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("error: %v", v.err)) + "\n")
		return b.String()
	}
	if v.confirmDelete != "" {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete ALL captures for %s? [y/N]", v.confirmDelete)) + "\n\n")
	}

	if v.lm.State().CapHidden {
		b.WriteString(dimStyle.Render("Latest frames panel hidden (p on dashboard to show).") + "\n\n")
	} else if len(v.latest) > 0 {
		b.WriteString(headStyle.Render("Latest frames") + "\n")
		for _, c := range v.latest {
			ts := "-"
			if c.Timestamp != nil {
				ts = format.Ts(*c.Timestamp)
			}
			b.WriteString(fmt.Sprintf(" %-20s %-14s %s\n", clip(c.Name, 20), clip(c.Area, 14), ts))
		}
		b.WriteString("\n")
	}

	b.WriteString(headStyle.Render("Saved captures") + "\n")
	if v.loading {
		b.WriteString(dimStyle.Render("Loading...") + "\n")
	}
	if len(v.captures) == 0 && !v.loading {
		b.WriteString(dimStyle.Render("No saved captures.") + "\n")
	}
	for i, c := range v.captures {
		ts := "-"
		if c.Timestamp != nil {
			ts = format.Ts(*c.Timestamp)
		}
		area := "-"
		if c.Area != nil && *c.Area != "" {
			area = *c.Area
		}
		line := fmt.Sprintf(" %-16s %-14s %-30s %s", ts, clip(area, 14), clip(c.File, 30), clip(c.Note, 16))
		if i == v.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if v.status != "" {
		b.WriteString("\n" + dimStyle.Render(v.status))
	}
	return b.String()
}

func (v CapturesView) Help() string {
	return "j/k move · c capture · d delete day · r reload"
}
