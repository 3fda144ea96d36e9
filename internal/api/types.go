package api

// TrackedSubject is one employee card in the tracking state response.
// Pointer fields are null in the JSON when the backend has never seen
// the employee.
type TrackedSubject struct {
	EmployeeID   int64   `json:"employee_id"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	Status       string  `json:"status"`
	LastSeen     *string `json:"last_seen"`
	SecondsSince *int64  `json:"seconds_since"`
	IsPresent    bool    `json:"is_present"`
	// IsActive is omitted by older backends; missing means active.
	IsActive   *bool   `json:"is_active"`
	CameraID   *int64  `json:"camera_id"`
	CameraName *string `json:"camera_name"`
}

// Active reports whether the subject is an active employee. Only an
// explicit false deactivates, matching the backend's is_active column.
func (s TrackedSubject) Active() bool {
	return s.IsActive == nil || *s.IsActive
}

// TrackingSnapshot is the full /api/tracking/state payload. The backend
// sorts Employees: present first, then by seconds since last seen.
type TrackingSnapshot struct {
	Running     bool             `json:"running"`
	Present     int              `json:"present"`
	Alerts      int              `json:"alerts"`
	Total       int              `json:"total"`
	ActiveTotal int              `json:"active_total"`
	Employees   []TrackedSubject `json:"employees"`
}

type Camera struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	StreamEnabled bool   `json:"stream_enabled"`
	Area          string `json:"area"`
}

// CameraStatus reports per-camera AI and stream flags for polling.
type CameraStatus struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AIRunning     bool   `json:"ai_running"`
	StreamEnabled bool   `json:"stream_enabled"`
}

type cameraStatusList struct {
	Items []CameraStatus `json:"items"`
}

type Employee struct {
	ID           int64   `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	PhoneNumber  *string `json:"phone_number"`
	IsActive     bool    `json:"is_active"`
}

// NewEmployee is the create/update payload. Zero-value optional fields
// are omitted so a partial update does not clear them.
type NewEmployee struct {
	EmployeeCode string  `json:"employee_code"`
	Name         string  `json:"name"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// FaceTemplate is one enrolled reference face for an employee.
type FaceTemplate struct {
	ID           int64    `json:"id"`
	CreatedAt    *string  `json:"created_at"`
	PoseLabel    *string  `json:"pose_label"`
	QualityScore *float64 `json:"quality_score"`
	EmbeddingB64 *string  `json:"embedding_b64"`
	ImageURL     *string  `json:"image_url"`
}

type AttendanceRow struct {
	EmployeeID     int64   `json:"employee_id"`
	EmployeeCode   string  `json:"employee_code"`
	EmployeeName   string  `json:"employee_name"`
	Date           *string `json:"date"`
	FirstInTS      *string `json:"first_in_ts"`
	LastOutTS      *string `json:"last_out_ts"`
	Status         string  `json:"status"`
	EntryType      string  `json:"entry_type"`
	ViolationCount int64   `json:"violation_count"`
}

type AlertRow struct {
	Timestamp    *string `json:"timestamp"`
	EmployeeID   *int64  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code"`
	EmployeeName *string `json:"employee_name"`
	AlertType    string  `json:"alert_type"`
	Message      *string `json:"message"`
	NotifiedTo   *string `json:"notified_to"`
}

// AttendanceCaptures pairs the first-in and last-out evidence images
// for one employee on one day.
type AttendanceCaptures struct {
	EmployeeID int64      `json:"employee_id"`
	Date       string     `json:"date"`
	FirstInTS  *string    `json:"first_in_ts"`
	LastOutTS  *string    `json:"last_out_ts"`
	FirstInURL *string    `json:"first_in_url"`
	LastOutURL *string    `json:"last_out_url"`
	FirstInCam CaptureCam `json:"first_in_cam"`
	LastOutCam CaptureCam `json:"last_out_cam"`
}

type CaptureCam struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
	Area *string `json:"area"`
}

// Capture is one saved manual frame capture.
type Capture struct {
	Timestamp *string `json:"timestamp"`
	File      string  `json:"file"`
	CamID     *int64  `json:"cam_id"`
	Area      *string `json:"area"`
	Note      string  `json:"note"`
	URL       string  `json:"url"`
}

// CameraCapture is the latest rolling frame for one camera.
type CameraCapture struct {
	CamID     int64   `json:"cam_id"`
	Area      string  `json:"area"`
	Name      string  `json:"name"`
	URL       *string `json:"url"`
	Timestamp *string `json:"timestamp"`
}

// ScheduleState mirrors the backend tracking schedule machine.
type ScheduleState struct {
	AutoSchedule   bool    `json:"auto_schedule"`
	TrackingActive bool    `json:"tracking_active"`
	SuppressAlerts bool    `json:"suppress_alerts"`
	WorkHours      string  `json:"work_hours"`
	LunchBreak     string  `json:"lunch_break"`
	PauseUntil     *string `json:"pause_until"`
	PauseKind      *string `json:"pause_kind"`
}

// ScheduleUpdate is the POST /api/schedule/mode payload. Nil fields
// are left untouched by the backend.
type ScheduleUpdate struct {
	AutoSchedule   *bool  `json:"auto_schedule,omitempty"`
	TrackingActive *bool  `json:"tracking_active,omitempty"`
	SuppressAlerts *bool  `json:"suppress_alerts,omitempty"`
	WorkHours      string `json:"work_hours,omitempty"`
	LunchBreak     string `json:"lunch_break,omitempty"`
	ClearPause     bool   `json:"clear_pause,omitempty"`
}

type SystemInfo struct {
	InternetMS       *float64 `json:"internet_ms"`
	GPUUsagePercent  *int64   `json:"gpu_usage_percent"`
	MemoryTotalBytes *int64   `json:"memory_total_bytes"`
	MemoryUsedBytes  *int64   `json:"memory_used_bytes"`
}

type SystemHealth struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

// ConfigParams carries the backend tunables the client respects.
type ConfigParams struct {
	AwayMuteThresholdHours  int64  `json:"away_mute_threshold_hours"`
	WorkHours               string `json:"work_hours"`
	LunchBreak              string `json:"lunch_break"`
	MarkAbsentEnabled       bool   `json:"mark_absent_enabled"`
	MarkAbsentOffsetMinutes int64  `json:"mark_absent_offset_minutes_before_end"`
	AlertMinIntervalSec     int64  `json:"alert_min_interval_sec"`
	NotificationLimit       int64  `json:"notification_limit"`
}

// ResetResult reports how many log rows an admin reset removed.
type ResetResult struct {
	OK               bool  `json:"ok"`
	DeletedEvents    int64 `json:"deleted_events"`
	DeletedAlertLogs int64 `json:"deleted_alert_logs"`
}
