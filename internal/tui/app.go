package tui

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/config"
	"github.com/hartono/pantau/internal/layout"
	"github.com/hartono/pantau/internal/notify"
	"github.com/hartono/pantau/internal/realtime"
	"github.com/hartono/pantau/internal/stream"
	"github.com/hartono/pantau/internal/tracker"
)

// --- Messages ---

type trackingTickMsg struct{}
type trackingPolledMsg struct {
	transitions []tracker.Transition
	err         error
}

type scheduleTickMsg struct{}
type scheduleLoadedMsg struct {
	state  *api.ScheduleState
	params *api.ConfigParams
	err    error
}

type systemTickMsg struct{}
type systemLoadedMsg struct {
	info     *api.SystemInfo
	health   *api.SystemHealth
	statuses []api.CameraStatus
	err      error
}

type camerasLoadedMsg struct {
	cameras []api.Camera
	err     error
}
type camerasRetryMsg struct{}

type reportTickMsg struct{}
type captureTickMsg struct{}

type rtEventMsg struct{ ev realtime.Envelope }
type rtClosedMsg struct{}

type heavyRefreshMsg struct{}

type sweepDoneMsg struct {
	marked int64
	err    error
}

// --- Model ---

type Model struct {
	cfg     config.Config
	client  *api.Client
	db      *sql.DB
	rt      *realtime.Client
	tracker *tracker.Tracker
	center  *notify.Center
	layout  *layout.Manager
	session *stream.Session

	view   ViewType
	width  int
	height int

	dashboard DashboardView
	reports   ReportsView
	cameras   CamerasView
	captures  CapturesView
	system    SystemView

	schedule *api.ScheduleState
	params   *api.ConfigParams

	// camerasRetried limits the startup camera-roster retry to one
	// attempt; later refreshes ride the debounced layout signal.
	camerasRetried bool

	// heavyCh carries debounced layout-change signals out of the
	// preference store's timer goroutine and into the event loop.
	heavyCh chan struct{}
}

func NewModel(cfg config.Config, client *api.Client, db *sql.DB, rt *realtime.Client,
	trk *tracker.Tracker, center *notify.Center, lm *layout.Manager, sess *stream.Session) Model {

	m := Model{
		cfg:     cfg,
		client:  client,
		db:      db,
		rt:      rt,
		tracker: trk,
		center:  center,
		layout:  lm,
		session: sess,
		heavyCh: make(chan struct{}, 1),
	}
	lm.SetOnHeavyRefresh(func() {
		select {
		case m.heavyCh <- struct{}{}:
		default:
		}
	})
	lm.Subscribe(func(st layout.State) {
		applog.Info("layout_change",
			"feed_hidden", st.FeedHidden,
			"cap_hidden", st.CapHidden,
			"emp_expanded", st.EmpExpanded,
			"area", st.Area)
	})

	m.dashboard = NewDashboardView(trk, center, lm)
	m.reports = NewReportsView(client, cfg.FilterDebounce)
	m.cameras = NewCamerasView(client, rt, sess, lm)
	m.captures = NewCapturesView(client, sess, lm)
	m.system = NewSystemView(client)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		runRealtime(m.rt),
		listenRealtime(m.rt),
		listenHeavy(m.heavyCh),
		loadCameras(m.client),
		pollTracking(m.tracker),
		loadSchedule(m.client),
		loadSystem(m.client),
		m.captures.Reload(),
		tick(m.cfg.TrackingInterval, trackingTickMsg{}),
		tick(m.cfg.ScheduleInterval, scheduleTickMsg{}),
		tick(m.cfg.SystemInterval, systemTickMsg{}),
		tick(m.cfg.ReportInterval, reportTickMsg{}),
		tick(m.cfg.CaptureInterval, captureTickMsg{}),
	)
}

// camerasRetryDelay spaces the single retry of the startup camera
// roster fetch.
const camerasRetryDelay = 3 * time.Second

// --- Command helpers ---

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func runRealtime(rt *realtime.Client) tea.Cmd {
	return func() tea.Msg {
		rt.Run(context.Background())
		return rtClosedMsg{}
	}
}

func listenRealtime(rt *realtime.Client) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-rt.Events()
		if !ok {
			return rtClosedMsg{}
		}
		return rtEventMsg{ev: ev}
	}
}

func listenHeavy(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return heavyRefreshMsg{}
	}
}

func pollTracking(trk *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		trs, err := trk.Poll(ctx)
		return trackingPolledMsg{transitions: trs, err: err}
	}
}

func loadCameras(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		cams, err := client.Cameras(ctx)
		return camerasLoadedMsg{cameras: cams, err: err}
	}
}

func loadSchedule(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		st, err := client.ScheduleState(ctx)
		if err != nil {
			return scheduleLoadedMsg{err: err}
		}
		params, err := client.ConfigParams(ctx)
		return scheduleLoadedMsg{state: st, params: params, err: err}
	}
}

func loadSystem(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		info, err := client.SystemInfo(ctx)
		if err != nil {
			return systemLoadedMsg{err: err}
		}
		health, _ := client.SystemHealth(ctx)
		statuses, err := client.CameraStatuses(ctx)
		return systemLoadedMsg{info: info, health: health, statuses: statuses, err: err}
	}
}

func runSweep(trk *tracker.Tracker, st *api.ScheduleState, params *api.ConfigParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		marked, err := trk.SweepAbsent(ctx, st, params, time.Now())
		return sweepDoneMsg{marked: marked, err: err}
	}
}

func bell() tea.Msg {
	os.Stdout.WriteString("\a")
	return nil
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		paneHeight := m.height - 3 // navbar + bottom bar
		m.dashboard.SetSize(m.width, paneHeight)
		m.reports.SetSize(m.width, paneHeight)
		m.cameras.SetSize(m.width, paneHeight)
		m.captures.SetSize(m.width, paneHeight)
		m.system.SetSize(m.width, paneHeight)
		return m, nil

	case tea.KeyMsg:
		// A view waiting on a confirmation owns the keyboard.
		if !m.captures.InputActive() && !m.dashboard.InputActive() {
			switch msg.String() {
			case "q", "ctrl+c":
				m.session.Stop()
				return m, tea.Quit
			case "1":
				m.view = ViewDashboard
				return m, nil
			case "2":
				m.view = ViewReports
				return m, m.reports.Reload()
			case "3":
				m.view = ViewCameras
				return m, nil
			case "4":
				m.view = ViewCaptures
				return m, m.captures.Reload()
			case "5":
				m.view = ViewSystem
				return m, nil
			case "tab":
				m.view = (m.view + 1) % 5
				return m, nil
			}
		}
		return m.updateActiveView(msg)

	case trackingTickMsg:
		return m, tea.Batch(pollTracking(m.tracker), tick(m.cfg.TrackingInterval, trackingTickMsg{}))

	case trackingPolledMsg:
		if msg.err != nil {
			m.dashboard.pollErr = msg.err
			return m, nil
		}
		m.dashboard.pollErr = nil
		var cmds []tea.Cmd
		for _, tr := range msg.transitions {
			if cmd := m.pushTransition(tr.AlertType, tr.Message); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case scheduleTickMsg:
		return m, tea.Batch(loadSchedule(m.client), tick(m.cfg.ScheduleInterval, scheduleTickMsg{}))

	case scheduleLoadedMsg:
		if msg.err != nil {
			applog.Error("schedule_load", msg.err)
			return m, nil
		}
		m.schedule = msg.state
		m.params = msg.params
		m.system.SetSchedule(msg.state, msg.params)
		return m, runSweep(m.tracker, msg.state, msg.params)

	case sweepDoneMsg:
		if msg.err != nil {
			applog.Error("mark_absent_sweep", msg.err)
			return m, nil
		}
		if msg.marked > 0 {
			return m, m.pushInfo(fmt.Sprintf("Marked %d employees absent at end of workday", msg.marked))
		}
		return m, nil

	case systemTickMsg:
		return m, tea.Batch(loadSystem(m.client), tick(m.cfg.SystemInterval, systemTickMsg{}))

	case systemLoadedMsg:
		if msg.err != nil {
			m.system.err = msg.err
			return m, nil
		}
		m.system.err = nil
		m.system.SetInfo(msg.info, msg.health)
		m.cameras.SetStatuses(msg.statuses)
		return m, nil

	case camerasLoadedMsg:
		if msg.err != nil {
			applog.Error("cameras_load", msg.err)
			if !m.camerasRetried {
				m.camerasRetried = true
				return m, tick(camerasRetryDelay, camerasRetryMsg{})
			}
			return m, nil
		}
		areas := make(map[int64]string, len(msg.cameras))
		for _, cam := range msg.cameras {
			areas[cam.ID] = cam.Area
		}
		m.tracker.SetCameraAreas(areas)
		m.cameras.SetCameras(msg.cameras)
		m.dashboard.SetAreas(cameraAreas(msg.cameras))
		return m, nil

	case camerasRetryMsg:
		return m, loadCameras(m.client)

	case captureTickMsg:
		next := tick(m.cfg.CaptureInterval, captureTickMsg{})
		if m.view == ViewCaptures {
			return m, tea.Batch(m.captures.Reload(), next)
		}
		return m, next

	case reportTickMsg:
		next := tick(m.cfg.ReportInterval, reportTickMsg{})
		if m.view == ViewReports {
			return m, tea.Batch(m.reports.Reload(), next)
		}
		return m, next

	case heavyRefreshMsg:
		// Debounced layout change: refresh the camera grid state.
		if err := m.rt.RequestCameraStatuses(); err != nil {
			applog.Error("camera_statuses_request", err)
		}
		return m, listenHeavy(m.heavyCh)

	case rtEventMsg:
		cmd := m.handleRealtime(msg.ev)
		return m, tea.Batch(cmd, listenRealtime(m.rt))

	case rtClosedMsg:
		return m, nil

	// Async results go to their owning view even when another view
	// has the screen.
	case reportLoadedMsg, filterDebouncedMsg:
		var cmd tea.Cmd
		m.reports, cmd = m.reports.Update(msg)
		return m, cmd
	case capturesLoadedMsg, captureDoneMsg, capturesDeletedMsg:
		var cmd tea.Cmd
		m.captures, cmd = m.captures.Update(msg)
		return m, cmd
	case systemActionMsg:
		var cmd tea.Cmd
		m.system, cmd = m.system.Update(msg)
		return m, cmd
	}

	return m.updateActiveView(msg)
}

// handleRealtime routes one backend event to the owning component.
func (m *Model) handleRealtime(ev realtime.Envelope) tea.Cmd {
	switch ev.Event {
	case realtime.EventFrame:
		var f realtime.Frame
		if err := ev.Decode(&f); err != nil {
			return nil
		}
		m.session.HandleFrame(f)

	case realtime.EventStreamError:
		var se realtime.StreamError
		if err := ev.Decode(&se); err != nil {
			return nil
		}
		m.session.HandleStopped()
		return m.pushInfo("Stream error: " + se.Message)

	case realtime.EventStreamStopped:
		m.session.HandleStopped()

	case realtime.EventCaptureSaved:
		if m.view == ViewCaptures {
			return m.captures.Reload()
		}

	case realtime.EventCapturesDeleted:
		var cd realtime.CapturesDeleted
		if err := ev.Decode(&cd); err != nil {
			return nil
		}
		reload := m.captures.Reload()
		info := m.pushInfo(fmt.Sprintf("Deleted %d capture files for %s", cd.FilesRemoved, cd.Date))
		return tea.Batch(reload, info)

	case realtime.EventCameraStatus:
		var st realtime.CameraStatus
		if err := ev.Decode(&st); err != nil {
			return nil
		}
		if err := m.session.HandleStatus(st); err != nil {
			applog.Error("stream_stop_on_disable", err)
		}
		m.cameras.ApplyStatus(st)

	case realtime.EventCameraStatuses:
		var sts realtime.CameraStatuses
		if err := ev.Decode(&sts); err != nil {
			return nil
		}
		for _, st := range sts.Items {
			m.cameras.ApplyStatus(st)
		}

	case realtime.EventAlertLog:
		var al realtime.AlertLog
		if err := ev.Decode(&al); err != nil {
			return nil
		}
		if al.Message == nil || *al.Message == "" {
			return nil
		}
		return m.pushTransition(al.AlertType, *al.Message)
	}
	return nil
}

// pushTransition records an ENTER/EXIT notification. The message text
// doubles as the dedup key so the local differ and the backend echo of
// the same transition collapse into one entry.
func (m *Model) pushTransition(alertType, message string) tea.Cmd {
	kind := notify.KindInfo
	switch alertType {
	case "ENTER", "RESOLVED":
		kind = notify.KindEnter
	case "EXIT", "BACK_TO_AREA":
		kind = notify.KindExit
	}
	accepted, err := m.center.PushKeyed(message, kind, message)
	if err != nil {
		applog.Error("notify_push", err)
		return nil
	}
	if accepted && m.center.ShouldBell() {
		return bell
	}
	return nil
}

func (m *Model) pushInfo(message string) tea.Cmd {
	if _, err := m.center.Push(notify.KindInfo, message); err != nil {
		applog.Error("notify_push", err)
	}
	return nil
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewReports:
		m.reports, cmd = m.reports.Update(msg)
	case ViewCameras:
		m.cameras, cmd = m.cameras.Update(msg)
	case ViewCaptures:
		m.captures, cmd = m.captures.Update(msg)
	case ViewSystem:
		m.system, cmd = m.system.Update(msg)
	}
	return m, cmd
}

func cameraAreas(cams []api.Camera) []string {
	seen := make(map[string]bool)
	var areas []string
	for _, c := range cams {
		if c.Area != "" && !seen[c.Area] {
			seen[c.Area] = true
			areas = append(areas, c.Area)
		}
	}
	sort.Strings(areas)
	return areas
}

// --- View ---

func (m Model) View() string {
	stats := ""
	if snap := m.tracker.Last(); snap != nil {
		stats = fmt.Sprintf("%d/%d present", snap.Present, snap.ActiveTotal)
		if !snap.Running {
			stats += " · tracking stopped"
		}
	}
	navbar := renderNavbar(m.view, m.rt.Connected(), m.center.Unread(), stats, m.width)

	var body, help string
	switch m.view {
	case ViewDashboard:
		body = m.dashboard.View()
		help = m.dashboard.Help()
	case ViewReports:
		body = m.reports.View()
		help = m.reports.Help()
	case ViewCameras:
		body = m.cameras.View()
		help = m.cameras.Help()
	case ViewCaptures:
		body = m.captures.View()
		help = m.captures.Help()
	case ViewSystem:
		body = m.system.View()
		help = m.system.Help()
	}

	bodyStyle := lipgloss.NewStyle().Width(m.width).Height(m.height - 3)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	bottom := helpStyle.Render(help + "  ·  1-5/tab views · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, navbar, bodyStyle.Render(body), bottom)
}
