package api

import (
	"context"
	"net/url"
)

// ReportFilter narrows report queries. Zero values mean "no filter".
type ReportFilter struct {
	From       string // YYYY-MM-DD, inclusive
	To         string // YYYY-MM-DD, inclusive
	EmployeeID int64
}

func (f ReportFilter) query() url.Values {
	q := url.Values{}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	if f.EmployeeID > 0 {
		q.Set("employee_id", itoa(f.EmployeeID))
	}
	return q
}

// AttendanceReport fetches attendance rows for the filter, newest
// date first.
func (c *Client) AttendanceReport(ctx context.Context, f ReportFilter) ([]AttendanceRow, error) {
	var rows []AttendanceRow
	resp, err := c.req().SetContext(ctx).
		SetQueryParamsFromValues(f.query()).
		SetResult(&rows).
		Get("/api/report/attendance")
	if err := check("attendance report", resp, err); err != nil {
		return nil, err
	}
	return rows, nil
}

// AlertReport fetches alert log rows for the filter, newest first.
func (c *Client) AlertReport(ctx context.Context, f ReportFilter) ([]AlertRow, error) {
	var rows []AlertRow
	resp, err := c.req().SetContext(ctx).
		SetQueryParamsFromValues(f.query()).
		SetResult(&rows).
		Get("/api/report/alerts")
	if err := check("alert report", resp, err); err != nil {
		return nil, err
	}
	return rows, nil
}

// AttendanceExportURL builds the xlsx download link for the filter.
func (c *Client) AttendanceExportURL(f ReportFilter) string {
	return exportURL(c.BaseURL(), "/api/report/attendance", f.query())
}

// AlertExportURL builds the xlsx download link for the filter.
func (c *Client) AlertExportURL(f ReportFilter) string {
	return exportURL(c.BaseURL(), "/api/report/alerts", f.query())
}

// AttendanceEvidence fetches the first-in and last-out capture pair
// for one employee on one day.
func (c *Client) AttendanceEvidence(ctx context.Context, employeeID int64, date string) (*AttendanceCaptures, error) {
	out := &AttendanceCaptures{}
	resp, err := c.req().SetContext(ctx).
		SetQueryParam("employee_id", itoa(employeeID)).
		SetQueryParam("date", date).
		SetResult(out).
		Get("/api/report/attendance_captures")
	if err := check("attendance evidence", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
