package report

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hartono/pantau/internal/api"
)

func s(v string) *string { return &v }

func attRow(code, date string, firstIn *string, violations int64) api.AttendanceRow {
	return api.AttendanceRow{
		EmployeeCode:   code,
		EmployeeName:   "Employee " + code,
		Date:           s(date),
		FirstInTS:      firstIn,
		Status:         "PRESENT",
		ViolationCount: violations,
	}
}

func TestDefaultSortDateDesc(t *testing.T) {
	tbl := NewAttendanceTable()
	tbl.SetRows([]api.AttendanceRow{
		attRow("E1", "2026-08-29", nil, 0),
		attRow("E2", "2026-08-31", nil, 0),
		attRow("E3", "2026-08-30", nil, 0),
	})

	rows := tbl.Sorted()
	if *rows[0].Date != "2026-08-31" || *rows[2].Date != "2026-08-29" {
		t.Errorf("order = %q, %q, %q", *rows[0].Date, *rows[1].Date, *rows[2].Date)
	}
}

func TestNullsSortLastBothDirections(t *testing.T) {
	tbl := NewAttendanceTable()
	tbl.SetRows([]api.AttendanceRow{
		attRow("E1", "2026-08-31", s("2026-08-31T08:05:00Z"), 0),
		attRow("E2", "2026-08-31", nil, 0),
		attRow("E3", "2026-08-31", s("2026-08-31T07:45:00Z"), 0),
	})

	tbl.ToggleSort("first_in_ts") // desc-first column
	rows := tbl.Sorted()
	if rows[0].EmployeeCode != "E1" || rows[2].EmployeeCode != "E2" {
		t.Errorf("desc order = %s, %s, %s", rows[0].EmployeeCode, rows[1].EmployeeCode, rows[2].EmployeeCode)
	}

	tbl.ToggleSort("first_in_ts") // flip to asc; null still last
	rows = tbl.Sorted()
	if rows[0].EmployeeCode != "E3" || rows[2].EmployeeCode != "E2" {
		t.Errorf("asc order = %s, %s, %s", rows[0].EmployeeCode, rows[1].EmployeeCode, rows[2].EmployeeCode)
	}
}

func TestViolationCountSortsNumerically(t *testing.T) {
	tbl := NewAttendanceTable()
	tbl.SetRows([]api.AttendanceRow{
		attRow("E1", "2026-08-31", nil, 2),
		attRow("E2", "2026-08-31", nil, 10),
		attRow("E3", "2026-08-31", nil, 9),
	})

	// A count column starts descending, and 10 > 9 > 2 numerically
	// (string order would put "10" before "2").
	tbl.ToggleSort("violation_count")
	rows := tbl.Sorted()
	got := []int64{rows[0].ViolationCount, rows[1].ViolationCount, rows[2].ViolationCount}
	if got[0] != 10 || got[1] != 9 || got[2] != 2 {
		t.Errorf("counts = %v", got)
	}
}

func TestTextColumnStartsAscending(t *testing.T) {
	tbl := NewAttendanceTable()
	tbl.SetRows([]api.AttendanceRow{
		attRow("E2", "2026-08-31", nil, 0),
		attRow("E1", "2026-08-31", nil, 0),
	})

	tbl.ToggleSort("employee_code")
	if key, dir := tbl.Sort(); key != "employee_code" || dir != Asc {
		t.Fatalf("sort = %s %s", key, dir)
	}
	rows := tbl.Sorted()
	if rows[0].EmployeeCode != "E1" {
		t.Errorf("first = %s", rows[0].EmployeeCode)
	}
}

func TestPaging(t *testing.T) {
	tbl := NewAttendanceTable()
	var rows []api.AttendanceRow
	for i := 0; i < 45; i++ {
		rows = append(rows, attRow(fmt.Sprintf("E%02d", i), "2026-08-31", nil, 0))
	}
	tbl.SetRows(rows)

	page, info := tbl.Page()
	if len(page) != 20 || info.TotalPages != 3 || info.TotalRows != 45 {
		t.Fatalf("page = %d rows, info = %+v", len(page), info)
	}

	tbl.Next()
	tbl.Next()
	page, info = tbl.Page()
	if len(page) != 5 || info.Page != 2 {
		t.Fatalf("last page = %d rows, info = %+v", len(page), info)
	}

	tbl.Next() // already at the end
	_, info = tbl.Page()
	if info.Page != 2 {
		t.Errorf("page advanced past the end: %+v", info)
	}

	tbl.Prev()
	_, info = tbl.Page()
	if info.Page != 1 {
		t.Errorf("prev page = %+v", info)
	}
}

func TestRefreshResetsPage(t *testing.T) {
	tbl := NewAlertTable()
	var rows []api.AlertRow
	for i := 0; i < 120; i++ {
		ts := fmt.Sprintf("2026-08-31T08:%02d:00Z", i%60)
		rows = append(rows, api.AlertRow{Timestamp: s(ts), AlertType: "ENTER"})
	}
	tbl.SetRows(rows)
	tbl.Next()

	// A background refresh with fewer rows clamps back into range.
	tbl.SetRows(rows[:30])
	page, info := tbl.Page()
	if info.Page != 0 || len(page) != 30 {
		t.Errorf("after refresh: %d rows, info = %+v", len(page), info)
	}
}

func TestAlertSortDefaults(t *testing.T) {
	tbl := NewAlertTable()
	if key, dir := tbl.Sort(); key != "timestamp" || dir != Desc {
		t.Fatalf("default sort = %s %s", key, dir)
	}
	tbl.SetRows([]api.AlertRow{
		{Timestamp: s("2026-08-31T08:00:00Z"), AlertType: "ENTER"},
		{Timestamp: s("2026-08-31T09:00:00Z"), AlertType: "EXIT"},
		{Timestamp: nil, AlertType: "ENTER"},
	})
	rows := tbl.Sorted()
	if rows[0].AlertType != "EXIT" || rows[2].Timestamp != nil {
		t.Errorf("order = %+v", rows)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}

	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("stopped trigger fired, calls = %d", n)
	}
}
