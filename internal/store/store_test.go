package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	// Reopening must not re-run migrations.
	db, err = OpenDB(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != len(migrations) {
		t.Errorf("applied migrations = %d, want %d", n, len(migrations))
	}
}

func TestNotificationHistoryCap(t *testing.T) {
	db := testDB(t)

	for i := 0; i < historyCap+25; i++ {
		if _, err := InsertNotification(db, fmt.Sprintf("k%d", i), "info", fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != historyCap {
		t.Errorf("history size = %d, want %d", n, historyCap)
	}

	// Newest rows survive the trim.
	rows, err := ListNotifications(db, 1, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Message != fmt.Sprintf("msg %d", historyCap+24) {
		t.Errorf("newest = %+v", rows)
	}
}

func TestListNotificationsPaging(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 25; i++ {
		if _, err := InsertNotification(db, "", "info", fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	page1, err := ListNotifications(db, 10, 0)
	if err != nil {
		t.Fatalf("page1: %v", err)
	}
	page2, err := ListNotifications(db, 10, 10)
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if len(page1) != 10 || len(page2) != 10 {
		t.Fatalf("page sizes = %d, %d", len(page1), len(page2))
	}
	if page1[0].Message != "msg 24" {
		t.Errorf("newest first, got %q", page1[0].Message)
	}
	if page2[0].Message != "msg 14" {
		t.Errorf("offset continues at %q", page2[0].Message)
	}
}

func TestUnreadLifecycle(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 3; i++ {
		if _, err := InsertNotification(db, "", "enter", "x"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	n, err := UnreadCount(db)
	if err != nil || n != 3 {
		t.Fatalf("unread = %d, err = %v", n, err)
	}
	if err := MarkAllRead(db); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	n, err = UnreadCount(db)
	if err != nil || n != 0 {
		t.Fatalf("unread after mark = %d, err = %v", n, err)
	}
	if err := ClearNotifications(db); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rows, err := ListNotifications(db, 10, 0)
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows after clear = %d, err = %v", len(rows), err)
	}
}

func TestRecentDedupKeysSkipsEmpty(t *testing.T) {
	db := testDB(t)
	InsertNotification(db, "a", "enter", "x")
	InsertNotification(db, "", "info", "no key")
	InsertNotification(db, "b", "exit", "y")

	keys, err := RecentDedupKeys(db, 30)
	if err != nil {
		t.Fatalf("RecentDedupKeys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("keys = %v", keys)
	}
}

func TestPrefs(t *testing.T) {
	db := testDB(t)

	v, err := GetPref(db, "layout", "default")
	if err != nil || v != "default" {
		t.Fatalf("missing pref = %q, err = %v", v, err)
	}
	if err := SetPref(db, "layout", "expanded"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SetPref(db, "layout", "compact"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err = GetPref(db, "layout", "default")
	if err != nil || v != "compact" {
		t.Fatalf("pref = %q, err = %v", v, err)
	}
}

func TestClaimDailyGuard(t *testing.T) {
	db := testDB(t)

	first, err := ClaimDailyGuard(db, "mark_absent", "2026-09-01")
	if err != nil || !first {
		t.Fatalf("first claim = %v, err = %v", first, err)
	}
	again, err := ClaimDailyGuard(db, "mark_absent", "2026-09-01")
	if err != nil || again {
		t.Fatalf("second claim = %v, err = %v", again, err)
	}
	nextDay, err := ClaimDailyGuard(db, "mark_absent", "2026-09-02")
	if err != nil || !nextDay {
		t.Fatalf("next day claim = %v, err = %v", nextDay, err)
	}
}

func TestHasDailyGuard(t *testing.T) {
	db := testDB(t)

	// Peeking never claims.
	for i := 0; i < 2; i++ {
		has, err := HasDailyGuard(db, "mark_absent", "2026-09-01")
		if err != nil || has {
			t.Fatalf("peek %d = %v, err = %v", i, has, err)
		}
	}
	if first, err := ClaimDailyGuard(db, "mark_absent", "2026-09-01"); err != nil || !first {
		t.Fatalf("claim after peeks = %v, err = %v", first, err)
	}
	has, err := HasDailyGuard(db, "mark_absent", "2026-09-01")
	if err != nil || !has {
		t.Fatalf("peek after claim = %v, err = %v", has, err)
	}
}

func TestPresenceCacheRoundTrip(t *testing.T) {
	db := testDB(t)

	in := map[int64]PresenceState{
		1: {EmployeeID: 1, Name: "Budi", IsPresent: true},
		2: {EmployeeID: 2, Name: "Sari", IsPresent: false},
	}
	if err := SavePresence(db, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := LoadPresence(db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || !out[1].IsPresent || out[2].IsPresent {
		t.Errorf("loaded = %+v", out)
	}

	// A smaller save removes stale employees.
	if err := SavePresence(db, map[int64]PresenceState{2: {EmployeeID: 2, Name: "Sari", IsPresent: true}}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	out, err = LoadPresence(db)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(out) != 1 || !out[2].IsPresent {
		t.Errorf("after resave = %+v", out)
	}
}
