package layout

import (
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hartono/pantau/internal/store"
)

func testManager(t *testing.T) (*Manager, *sql.DB) {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := Load(db, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m, db
}

func TestExpandRequiresBothHidden(t *testing.T) {
	m, _ := testManager(t)

	if m.ExpandEmployees() {
		t.Fatal("expand allowed with both panels visible")
	}
	m.ToggleFeed()
	if m.ExpandEmployees() {
		t.Fatal("expand allowed with capture panel visible")
	}
	m.ToggleCapture()
	if !m.CanExpand() {
		t.Fatal("CanExpand false with both hidden")
	}
	if !m.ExpandEmployees() {
		t.Fatal("expand refused with both hidden")
	}
	if !m.State().EmpExpanded {
		t.Fatal("state not expanded")
	}
}

func TestShowingPanelCollapsesExpansion(t *testing.T) {
	m, _ := testManager(t)
	m.ToggleFeed()
	m.ToggleCapture()
	m.ExpandEmployees()

	m.ToggleFeed() // show feed again
	st := m.State()
	if st.EmpExpanded {
		t.Fatal("expansion survived showing the feed panel")
	}
	if st.FeedHidden {
		t.Fatal("feed still hidden")
	}
}

func TestMinimize(t *testing.T) {
	m, _ := testManager(t)
	m.ToggleFeed()
	m.ToggleCapture()
	m.ExpandEmployees()
	m.MinimizeEmployees()
	if m.State().EmpExpanded {
		t.Fatal("still expanded after minimize")
	}
}

func TestStatePersists(t *testing.T) {
	m, db := testManager(t)
	m.ToggleFeed()
	m.ToggleCapture()
	m.ExpandEmployees()
	m.SetArea("Workshop")
	m.SetCaptureCam(3)
	m.SetEmpSort("status")

	reloaded, err := Load(db, 0)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	st := reloaded.State()
	if !st.FeedHidden || !st.CapHidden || !st.EmpExpanded {
		t.Errorf("reloaded state = %+v", st)
	}
	if st.Area != "Workshop" || st.CaptureCam != 3 || st.EmpSort != "status" {
		t.Errorf("reloaded prefs = %+v", st)
	}
}

func TestCorruptPersistedStateNormalized(t *testing.T) {
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	// A hand-edited state claiming expansion while panels are visible.
	if err := store.SetPref(db, prefKey, `{"feed_hidden": false, "cap_hidden": false, "emp_expanded": true}`); err != nil {
		t.Fatalf("seed pref: %v", err)
	}
	m, err := Load(db, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.State().EmpExpanded {
		t.Fatal("invalid expansion not normalized on load")
	}
}

func TestObserversNotified(t *testing.T) {
	m, _ := testManager(t)

	var got []State
	m.Subscribe(func(s State) { got = append(got, s) })

	m.ToggleFeed()
	m.SetArea("Lobby")
	m.SetArea("Lobby") // no-op must not notify

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if !got[0].FeedHidden || got[1].Area != "Lobby" {
		t.Errorf("notified states = %+v", got)
	}
}

func TestHeavyRefreshDebounce(t *testing.T) {
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	m, err := Load(db, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var calls atomic.Int32
	m.SetOnHeavyRefresh(func() { calls.Add(1) })

	// A burst of toggles coalesces into a single refresh.
	m.ToggleFeed()
	m.ToggleCapture()
	m.ToggleCapture()
	m.ToggleFeed()

	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("heavy refreshes = %d, want 1", n)
	}
}
