package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestTrackingState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracking/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"running": true, "present": 2, "alerts": 1, "total": 3, "active_total": 3,
			"employees": [
				{"employee_id": 7, "name": "Budi", "department": "Ops", "status": "available",
				 "last_seen": "2026-09-01T08:00:00+07:00", "seconds_since": 12, "is_present": true,
				 "camera_id": 2, "camera_name": "Lobby"},
				{"employee_id": 9, "name": "Sari", "department": "HR", "status": "off",
				 "last_seen": null, "seconds_since": null, "is_present": false,
				 "camera_id": null, "camera_name": null}
			]}`))
	})
	c := testServer(t, mux)

	snap, err := c.TrackingState(context.Background())
	if err != nil {
		t.Fatalf("TrackingState: %v", err)
	}
	if !snap.Running || snap.Present != 2 || snap.ActiveTotal != 3 {
		t.Errorf("snapshot header = %+v", snap)
	}
	if len(snap.Employees) != 2 {
		t.Fatalf("employees = %d", len(snap.Employees))
	}
	if snap.Employees[0].SecondsSince == nil || *snap.Employees[0].SecondsSince != 12 {
		t.Errorf("seconds_since = %v", snap.Employees[0].SecondsSince)
	}
	if snap.Employees[1].LastSeen != nil {
		t.Errorf("expected nil last_seen for never-seen employee")
	}
}

func TestErrorFieldSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/report/attendance", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_date"}`))
	})
	c := testServer(t, mux)

	_, err := c.AttendanceReport(context.Background(), ReportFilter{From: "bogus"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid_date") {
		t.Errorf("error = %v, want backend message surfaced", err)
	}
}

func TestReportFilterQuery(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/report/alerts", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	c := testServer(t, mux)

	_, err := c.AlertReport(context.Background(), ReportFilter{From: "2026-08-01", To: "2026-08-31", EmployeeID: 4})
	if err != nil {
		t.Fatalf("AlertReport: %v", err)
	}
	for _, want := range []string{"from=2026-08-01", "to=2026-08-31", "employee_id=4"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestExportURLs(t *testing.T) {
	c := New("http://backend:5000")
	u := c.AttendanceExportURL(ReportFilter{From: "2026-08-01", EmployeeID: 2})
	if !strings.HasPrefix(u, "http://backend:5000/api/report/attendance?") {
		t.Errorf("url = %q", u)
	}
	for _, want := range []string{"format=xlsx", "from=2026-08-01", "employee_id=2"} {
		if !strings.Contains(u, want) {
			t.Errorf("url %q missing %q", u, want)
		}
	}
	u = c.AlertExportURL(ReportFilter{})
	if u != "http://backend:5000/api/report/alerts?format=xlsx" {
		t.Errorf("url = %q", u)
	}
}

func TestDeleteCapturesRequiresConfirmation(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/captures", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "date": "2026-08-30", "files_removed": 3, "log_removed": 3}`))
	})
	c := testServer(t, mux)

	if _, err := c.DeleteCaptures(context.Background(), "2026-08-30", false); err == nil {
		t.Fatal("expected error without confirmation")
	}
	if called {
		t.Fatal("request must not be sent without confirmation")
	}

	res, err := c.DeleteCaptures(context.Background(), "2026-08-30", true)
	if err != nil {
		t.Fatalf("DeleteCaptures: %v", err)
	}
	if res.FilesRemoved != 3 {
		t.Errorf("files_removed = %d", res.FilesRemoved)
	}
}

func TestAddEmployeeValidation(t *testing.T) {
	c := New("http://backend:5000")
	if _, err := c.AddEmployee(context.Background(), NewEmployee{Name: "no code"}); err == nil {
		t.Error("expected error for missing employee_code")
	}
	if _, err := c.AddCamera(context.Background(), "", "rtsp://x", "", 0); err == nil {
		t.Error("expected error for missing camera name")
	}
}

func TestManualAttendanceValidation(t *testing.T) {
	c := New("http://backend:5000")
	if err := c.SetManualAttendance(context.Background(), 4, "2026-08-30", "LATE"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := c.SetManualAttendance(context.Background(), 0, "2026-08-30", "PRESENT"); err == nil {
		t.Error("expected error for missing employee_id")
	}
	if err := c.ResetAttendance(context.Background(), 4, ""); err == nil {
		t.Error("expected error for missing date")
	}
}

func TestManualAttendanceBody(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/attendance/manual", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	})
	c := testServer(t, mux)

	if err := c.SetManualAttendance(context.Background(), 4, "2026-08-30", "ABSENT"); err != nil {
		t.Fatalf("SetManualAttendance: %v", err)
	}
	for _, want := range []string{`"employee_id":4`, `"date":"2026-08-30"`, `"status":"ABSENT"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body %q missing %q", gotBody, want)
		}
	}
}

func TestAddFaceTemplateRequiresDataURL(t *testing.T) {
	c := New("http://backend:5000")
	if err := c.AddFaceTemplate(context.Background(), 4, "not-an-image", "front"); err == nil {
		t.Error("expected error for plain string image")
	}
}

func TestFaceTemplates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/employees/4/face_templates", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[
				{"id": 1, "created_at": "2026-08-30T09:00:00+07:00", "pose_label": "front",
				 "quality_score": 0.91, "embedding_b64": "AAAA", "image_url": "faces/4/1.jpg"},
				{"id": 2, "created_at": null, "pose_label": null,
				 "quality_score": null, "embedding_b64": null, "image_url": null}
			]`))
		case http.MethodDelete:
			w.Write([]byte(`{"ok": true}`))
		}
	})
	c := testServer(t, mux)

	tmpls, err := c.FaceTemplates(context.Background(), 4)
	if err != nil {
		t.Fatalf("FaceTemplates: %v", err)
	}
	if len(tmpls) != 2 {
		t.Fatalf("templates = %d", len(tmpls))
	}
	if tmpls[0].QualityScore == nil || *tmpls[0].QualityScore != 0.91 {
		t.Errorf("quality_score = %v", tmpls[0].QualityScore)
	}
	if tmpls[1].PoseLabel != nil {
		t.Errorf("expected nil pose_label for unlabeled template")
	}

	if err := c.ClearFaceTemplates(context.Background(), 4); err != nil {
		t.Fatalf("ClearFaceTemplates: %v", err)
	}
}

func TestRealtimeURL(t *testing.T) {
	if got := New("http://10.0.0.5:5000").RealtimeURL(); got != "ws://10.0.0.5:5000/socket" {
		t.Errorf("RealtimeURL = %q", got)
	}
	if got := New("https://cctv.example.com").RealtimeURL(); got != "wss://cctv.example.com/socket" {
		t.Errorf("RealtimeURL = %q", got)
	}
}

func TestAbsoluteURL(t *testing.T) {
	c := New("http://backend:5000/")
	if got := c.AbsoluteURL("captures/2026-08-30/cap_1.jpg"); got != "http://backend:5000/captures/2026-08-30/cap_1.jpg" {
		t.Errorf("AbsoluteURL = %q", got)
	}
	if got := c.AbsoluteURL("http://other/x.jpg"); got != "http://other/x.jpg" {
		t.Errorf("AbsoluteURL should pass absolute through, got %q", got)
	}
}
