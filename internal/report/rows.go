package report

import "github.com/hartono/pantau/internal/api"

const (
	attendancePageSize = 20
	alertPageSize      = 50
)

// NewAttendanceTable builds the attendance report controller, sorted
// by date descending like the backend returns it.
func NewAttendanceTable() *Table[api.AttendanceRow] {
	return NewTable(
		attendancePageSize,
		"date", Desc,
		[]string{"date", "first_in_ts", "last_out_ts", "violation_count"},
		attendanceValue,
	)
}

func attendanceValue(r api.AttendanceRow, key string) Value {
	switch key {
	case "employee_code":
		return Str(r.EmployeeCode)
	case "employee_name":
		return Str(r.EmployeeName)
	case "date":
		return TsValue(r.Date)
	case "first_in_ts":
		return TsValue(r.FirstInTS)
	case "last_out_ts":
		return TsValue(r.LastOutTS)
	case "status":
		return Str(r.Status)
	case "entry_type":
		return Str(r.EntryType)
	case "violation_count":
		return Num(float64(r.ViolationCount))
	default:
		return Null()
	}
}

// NewAlertTable builds the alert log controller, newest first.
func NewAlertTable() *Table[api.AlertRow] {
	return NewTable(
		alertPageSize,
		"timestamp", Desc,
		[]string{"timestamp"},
		alertValue,
	)
}

func alertValue(r api.AlertRow, key string) Value {
	switch key {
	case "timestamp":
		return TsValue(r.Timestamp)
	case "employee_code":
		return strPtr(r.EmployeeCode)
	case "employee_name":
		return strPtr(r.EmployeeName)
	case "alert_type":
		return Str(r.AlertType)
	case "message":
		return strPtr(r.Message)
	default:
		return Null()
	}
}

func strPtr(s *string) Value {
	if s == nil {
		return Null()
	}
	return Str(*s)
}
