package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/layout"
	"github.com/hartono/pantau/internal/realtime"
	"github.com/hartono/pantau/internal/stream"
)

// stallAfter is how long without a frame before the live view is
// flagged as stalled.
const stallAfter = 4 * time.Second

// CamerasView lists cameras with their AI/stream flags and drives the
// single live stream session.
type CamerasView struct {
	client  *api.Client
	rt      *realtime.Client
	session *stream.Session
	lm      *layout.Manager

	cameras  []api.Camera
	statuses map[int64]api.CameraStatus

	cursor int
	width  int
	height int
	status string
}

func NewCamerasView(client *api.Client, rt *realtime.Client, sess *stream.Session, lm *layout.Manager) CamerasView {
	return CamerasView{
		client:   client,
		rt:       rt,
		session:  sess,
		lm:       lm,
		statuses: make(map[int64]api.CameraStatus),
	}
}

func (v *CamerasView) SetSize(w, h int) {
	v.width = w
	v.height = h
}

func (v *CamerasView) SetCameras(cams []api.Camera) {
	v.cameras = cams
	if v.cursor >= len(cams) {
		v.cursor = 0
	}
}

func (v *CamerasView) SetStatuses(sts []api.CameraStatus) {
	for _, st := range sts {
		v.statuses[st.ID] = st
	}
}

// ApplyStatus merges one partial realtime status push.
func (v *CamerasView) ApplyStatus(st realtime.CameraStatus) {
	cur := v.statuses[st.CamID]
	cur.ID = st.CamID
	if st.Name != "" {
		cur.Name = st.Name
	}
	if st.AIRunning != nil {
		cur.AIRunning = *st.AIRunning
	}
	if st.StreamEnabled != nil {
		cur.StreamEnabled = *st.StreamEnabled
	}
	v.statuses[st.CamID] = cur
}

func (v *CamerasView) selected() *api.Camera {
	if v.cursor >= 0 && v.cursor < len(v.cameras) {
		return &v.cameras[v.cursor]
	}
	return nil
}

func (v CamerasView) Update(msg tea.Msg) (CamerasView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "j", "down":
		if v.cursor < len(v.cameras)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "s", "enter":
		cam := v.selected()
		if cam == nil {
			return v, nil
		}
		if active, ok := v.session.Active(); ok && active == cam.ID {
			if err := v.session.Stop(); err != nil {
				v.status = fmt.Sprintf("stop: %v", err)
			} else {
				v.status = "Stream stopped"
			}
			return v, nil
		}
		if err := v.session.Start(cam.ID); err != nil {
			v.status = fmt.Sprintf("start: %v", err)
		} else {
			v.status = "Streaming " + cam.Name
		}
	case "v":
		cam := v.selected()
		if cam == nil {
			return v, nil
		}
		enabled := v.statuses[cam.ID].StreamEnabled
		if err := v.rt.ToggleStream(cam.ID, !enabled); err != nil {
			v.status = fmt.Sprintf("toggle stream: %v", err)
		}
	case "i":
		cam := v.selected()
		if cam == nil {
			return v, nil
		}
		running := v.statuses[cam.ID].AIRunning
		if err := v.rt.ToggleAI(cam.ID, !running); err != nil {
			v.status = fmt.Sprintf("toggle ai: %v", err)
		}
	case "c":
		cam := v.selected()
		if cam != nil {
			v.lm.SetCaptureCam(cam.ID)
			v.status = "Capture camera: " + cam.Name
		}
	case "u":
		cam := v.selected()
		if cam != nil {
			v.status = "Snapshot: " + v.client.SnapshotURL(cam.ID, true)
		}
	case "r":
		if err := v.rt.RequestCameraStatuses(); err != nil {
			applog.Error("camera_statuses_request", err)
			v.status = fmt.Sprintf("refresh: %v", err)
		}
	}
	return v, nil
}

func (v CamerasView) View() string {
	headStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	onStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	liveStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Reverse(true)

	online := 0
	for _, st := range v.statuses {
		if st.AIRunning || st.StreamEnabled {
			online++
		}
	}

	var b strings.Builder
	b.WriteString(headStyle.Render("Cameras") + dimStyle.Render(fmt.Sprintf("  · %d/%d online", online, len(v.cameras))) + "\n\n")

	if len(v.cameras) == 0 {
		b.WriteString(dimStyle.Render("No cameras configured."))
		return b.String()
	}

	active, streaming := v.session.Active()
	captureCam := v.lm.State().CaptureCam

	for i, cam := range v.cameras {
		st := v.statuses[cam.ID]
		ai := offStyle.Render("ai ○")
		if st.AIRunning {
			ai = onStyle.Render("ai ●")
		}
		push := offStyle.Render("stream ○")
		if st.StreamEnabled {
			push = onStyle.Render("stream ●")
		}
		marks := ""
		if streaming && active == cam.ID {
			if v.session.Stalled(stallAfter) {
				marks = liveStyle.Render(" LIVE (stalled)")
			} else {
				marks = liveStyle.Render(" LIVE")
			}
		}
		if cam.ID == captureCam {
			marks += dimStyle.Render(" [capture]")
		}
		line := fmt.Sprintf(" %-20s %-14s %s  %s%s", clip(cam.Name, 20), clip(cam.Area, 14), ai, push, marks)
		if i == v.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if streaming {
		camID, frame := v.session.LastFrame()
		if frame != nil && camID == active {
			b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("Last frame: %d bytes", len(frame))))
		} else {
			b.WriteString("\n" + dimStyle.Render("Waiting for frames..."))
		}
	}
	if v.status != "" {
		b.WriteString("\n" + dimStyle.Render(v.status))
	}
	return b.String()
}

func (v CamerasView) Help() string {
	return "j/k move · s stream on/off · v push · i ai · c capture cam · u snapshot url · r refresh"
}
