package api

import (
	"context"
	"fmt"
)

// SetManualAttendance overrides one employee's attendance record for a
// day. status must be PRESENT or ABSENT; a manual entry wins over
// anything the tracker recorded for that date.
func (c *Client) SetManualAttendance(ctx context.Context, employeeID int64, date, status string) error {
	if employeeID <= 0 || date == "" {
		return fmt.Errorf("set attendance: employee_id and date are required")
	}
	if status != "PRESENT" && status != "ABSENT" {
		return fmt.Errorf("set attendance: status must be PRESENT or ABSENT, got %q", status)
	}
	body := map[string]any{
		"employee_id": employeeID,
		"date":        date,
		"status":      status,
	}
	resp, err := c.req().SetContext(ctx).SetBody(body).Post("/api/attendance/manual")
	return check("set attendance", resp, err)
}

// ResetAttendance drops a manual attendance override so the tracker's
// own record for that date shows again.
func (c *Client) ResetAttendance(ctx context.Context, employeeID int64, date string) error {
	if employeeID <= 0 || date == "" {
		return fmt.Errorf("reset attendance: employee_id and date are required")
	}
	body := map[string]any{
		"employee_id": employeeID,
		"date":        date,
	}
	resp, err := c.req().SetContext(ctx).SetBody(body).Post("/api/attendance/reset")
	return check("reset attendance", resp, err)
}
