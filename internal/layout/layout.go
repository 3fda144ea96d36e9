// Package layout manages the dashboard panel arrangement: which panels
// are hidden, whether the employee panel is expanded, the area filter,
// and the selected capture camera. State persists in the local store
// and observers are notified of every change.
package layout

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/store"
)

const prefKey = "dashboard_layout"

// State is one panel arrangement. EmpExpanded is only ever true while
// both the feed and capture panels are hidden.
type State struct {
	FeedHidden  bool   `json:"feed_hidden"`
	CapHidden   bool   `json:"cap_hidden"`
	EmpExpanded bool   `json:"emp_expanded"`
	Area        string `json:"area"`
	CaptureCam  int64  `json:"capture_cam"`
	EmpSort     string `json:"emp_sort"` // "", "name", "status", "department"
}

// normalize collapses the employee panel whenever the expansion
// precondition no longer holds, including for persisted state written
// by older versions.
func (s *State) normalize() {
	if !s.FeedHidden || !s.CapHidden {
		s.EmpExpanded = false
	}
}

// Manager owns the layout state. All methods are safe for concurrent
// use.
type Manager struct {
	mu        sync.Mutex
	db        *sql.DB
	state     State
	observers []func(State)

	debounce time.Duration
	timer    *time.Timer
	onHeavy  func()
}

// Load restores the layout from the store. Corrupt or missing state
// falls back to the default arrangement.
func Load(db *sql.DB, debounce time.Duration) (*Manager, error) {
	m := &Manager{db: db, debounce: debounce}

	raw, err := store.GetPref(db, prefKey, "")
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &m.state); err != nil {
			applog.Error("layout.load", err)
			m.state = State{}
		}
	}
	m.state.normalize()
	return m, nil
}

// State returns a copy of the current arrangement.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers an observer called after every state change,
// with no locks held. The camera grid, capture panel, and employee
// panel each subscribe instead of reaching into each other.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// SetOnHeavyRefresh registers the debounced callback for reloads that
// are too expensive to run on every toggle, such as re-fetching the
// camera list. Rapid toggles coalesce into one call.
func (m *Manager) SetOnHeavyRefresh(fn func()) {
	m.mu.Lock()
	m.onHeavy = fn
	m.mu.Unlock()
}

// CanExpand reports whether the employee panel may expand now.
func (m *Manager) CanExpand() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.FeedHidden && m.state.CapHidden && !m.state.EmpExpanded
}

// ToggleFeed shows or hides the camera feed panel. Showing it
// collapses an expanded employee panel.
func (m *Manager) ToggleFeed() {
	m.mutate(func(s *State) { s.FeedHidden = !s.FeedHidden })
}

// ToggleCapture shows or hides the capture panel. Showing it collapses
// an expanded employee panel.
func (m *Manager) ToggleCapture() {
	m.mutate(func(s *State) { s.CapHidden = !s.CapHidden })
}

// ExpandEmployees expands the employee panel to full width. Returns
// false when the feed or capture panel is still visible.
func (m *Manager) ExpandEmployees() bool {
	ok := false
	m.mutate(func(s *State) {
		if s.FeedHidden && s.CapHidden {
			s.EmpExpanded = true
			ok = true
		}
	})
	return ok
}

// MinimizeEmployees collapses the employee panel back to its column.
func (m *Manager) MinimizeEmployees() {
	m.mutate(func(s *State) { s.EmpExpanded = false })
}

// SetArea changes the employee area filter. Empty means all areas.
func (m *Manager) SetArea(area string) {
	m.mutate(func(s *State) { s.Area = area })
}

// SetCaptureCam remembers the camera selected for manual captures.
func (m *Manager) SetCaptureCam(id int64) {
	m.mutate(func(s *State) { s.CaptureCam = id })
}

// SetEmpSort remembers the employee list ordering across runs. Empty
// keeps the backend's order.
func (m *Manager) SetEmpSort(mode string) {
	m.mutate(func(s *State) { s.EmpSort = mode })
}

func (m *Manager) mutate(fn func(*State)) {
	m.mu.Lock()
	before := m.state
	fn(&m.state)
	m.state.normalize()
	if m.state == before {
		m.mu.Unlock()
		return
	}
	state := m.state
	observers := append(([]func(State))(nil), m.observers...)
	m.scheduleHeavyLocked()
	m.mu.Unlock()

	if raw, err := json.Marshal(state); err == nil {
		if err := store.SetPref(m.db, prefKey, string(raw)); err != nil {
			applog.Error("layout.persist", err)
		}
	}
	for _, ob := range observers {
		ob(state)
	}
}

// scheduleHeavyLocked arms the debounced heavy refresh. Caller holds
// the lock.
func (m *Manager) scheduleHeavyLocked() {
	if m.onHeavy == nil || m.debounce <= 0 {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	fn := m.onHeavy
	m.timer = time.AfterFunc(m.debounce, fn)
}
