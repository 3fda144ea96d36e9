// Package tracker polls the backend presence snapshot, diffs it
// against the previous state, and turns present/absent flips into
// transitions. The previous state persists in the local store so a
// restart does not replay or swallow transitions.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/applog"
	"github.com/hartono/pantau/internal/format"
	"github.com/hartono/pantau/internal/store"
)

// Backend is the slice of the API client the tracker needs.
type Backend interface {
	TrackingState(ctx context.Context) (*api.TrackingSnapshot, error)
	RecordAlert(ctx context.Context, employeeID int64, alertType, message string, cameraID *int64) error
	MarkAbsent(ctx context.Context, employeeIDs []int64) (int64, error)
}

// Transition is one present/absent flip.
type Transition struct {
	EmployeeID int64
	Name       string
	AlertType  string // "ENTER" or "EXIT"
	Message    string
	CameraID   *int64
}

type prevState struct {
	isPresent    bool
	secondsSince *int64
	name         string
}

// Tracker diffs tracking snapshots. Poll may be called from the timer
// loop and from manual refresh concurrently; each response carries a
// sequence number and stale responses are discarded, so a slow fetch
// that lands after a newer one can never rewind the state.
type Tracker struct {
	client Backend
	db     *sql.DB

	mu          sync.Mutex
	seq         uint64
	lastApplied uint64
	prev        map[int64]prevState
	last        *api.TrackingSnapshot
	areaFilter  string
	cameraAreas map[int64]string
	onFlip      func(Transition)
}

// New builds a Tracker, seeding the previous state from the local
// presence cache.
func New(client Backend, db *sql.DB) (*Tracker, error) {
	t := &Tracker{
		client:      client,
		db:          db,
		prev:        make(map[int64]prevState),
		cameraAreas: make(map[int64]string),
	}
	cached, err := store.LoadPresence(db)
	if err != nil {
		return nil, fmt.Errorf("load presence cache: %w", err)
	}
	for id, p := range cached {
		t.prev[id] = prevState{isPresent: p.IsPresent, name: p.Name}
	}
	return t, nil
}

// SetOnFlip registers a callback for each transition, invoked with no
// locks held.
func (t *Tracker) SetOnFlip(fn func(Transition)) {
	t.mu.Lock()
	t.onFlip = fn
	t.mu.Unlock()
}

// SetAreaFilter restricts the rendered cards to employees last seen by
// a camera in the given area. Empty means all areas. Diffing always
// covers the full roster so out-of-area transitions are still recorded.
func (t *Tracker) SetAreaFilter(area string) {
	t.mu.Lock()
	t.areaFilter = area
	t.mu.Unlock()
}

// SetCameraAreas updates the camera id to area index used by the
// area filter.
func (t *Tracker) SetCameraAreas(areas map[int64]string) {
	t.mu.Lock()
	t.cameraAreas = areas
	t.mu.Unlock()
}

// Last returns the most recently applied snapshot, or nil before the
// first successful poll.
func (t *Tracker) Last() *api.TrackingSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Poll fetches the snapshot, applies it, and returns the transitions
// it produced. A response that lost the race to a newer one returns
// no transitions.
func (t *Tracker) Poll(ctx context.Context) ([]Transition, error) {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	snap, err := t.client.TrackingState(ctx)
	if err != nil {
		return nil, fmt.Errorf("poll tracking: %w", err)
	}
	flips := t.apply(seq, snap)

	for _, tr := range flips {
		if err := t.client.RecordAlert(ctx, tr.EmployeeID, tr.AlertType, tr.Message, tr.CameraID); err != nil {
			applog.Error("tracker.record_alert", err, "employee", tr.EmployeeID, "type", tr.AlertType)
		}
	}
	if len(flips) > 0 || snap != nil {
		t.persist()
	}
	return flips, nil
}

// apply diffs a snapshot against the previous state. Returns nil when
// the snapshot is stale.
func (t *Tracker) apply(seq uint64, snap *api.TrackingSnapshot) []Transition {
	t.mu.Lock()

	if seq <= t.lastApplied {
		t.mu.Unlock()
		return nil
	}
	t.lastApplied = seq
	t.last = snap

	var flips []Transition
	for _, emp := range snap.Employees {
		if !emp.Active() {
			continue
		}
		prev, seen := t.prev[emp.EmployeeID]
		if seen && !prev.isPresent && emp.IsPresent {
			var away int64
			if prev.secondsSince != nil && *prev.secondsSince > 0 {
				away = *prev.secondsSince
			}
			flips = append(flips, Transition{
				EmployeeID: emp.EmployeeID,
				Name:       emp.Name,
				AlertType:  "ENTER",
				Message:    fmt.Sprintf("%s back to area after %s", displayName(emp), format.Duration(away)),
				CameraID:   emp.CameraID,
			})
		}
		if seen && prev.isPresent && !emp.IsPresent {
			flips = append(flips, Transition{
				EmployeeID: emp.EmployeeID,
				Name:       emp.Name,
				AlertType:  "EXIT",
				Message:    fmt.Sprintf("%s out of area since %s", displayName(emp), format.DurationAgo(emp.SecondsSince)),
				CameraID:   emp.CameraID,
			})
		}
		t.prev[emp.EmployeeID] = prevState{
			isPresent:    emp.IsPresent,
			secondsSince: emp.SecondsSince,
			name:         emp.Name,
		}
	}

	fn := t.onFlip
	t.mu.Unlock()

	if fn != nil {
		for _, tr := range flips {
			fn(tr)
		}
	}
	return flips
}

// Filtered returns the active employees of the last snapshot that pass
// the area filter, in the backend's order (present first). The filter
// narrows rendering only; apply diffs the full roster.
func (t *Tracker) Filtered() []api.TrackedSubject {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	var out []api.TrackedSubject
	for _, emp := range t.last.Employees {
		if !emp.Active() {
			continue
		}
		if t.areaFilter != "" && (emp.CameraID == nil || t.cameraAreas[*emp.CameraID] != t.areaFilter) {
			continue
		}
		out = append(out, emp)
	}
	return out
}

func (t *Tracker) persist() {
	t.mu.Lock()
	states := make(map[int64]store.PresenceState, len(t.prev))
	for id, p := range t.prev {
		states[id] = store.PresenceState{EmployeeID: id, Name: p.name, IsPresent: p.isPresent}
	}
	t.mu.Unlock()

	if err := store.SavePresence(t.db, states); err != nil {
		applog.Error("tracker.persist", err)
	}
}

func displayName(e api.TrackedSubject) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("Employee %d", e.EmployeeID)
}
