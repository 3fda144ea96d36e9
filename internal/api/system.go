package api

import "context"

// SystemInfo fetches latency, GPU, and memory readings for the header
// badges. Null readings mean the probe is unavailable on the backend.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	info := &SystemInfo{}
	resp, err := c.req().SetContext(ctx).SetResult(info).Get("/api/system/info")
	if err := check("system info", resp, err); err != nil {
		return nil, err
	}
	return info, nil
}

// SystemHealth checks liveness, used to detect the backend coming
// back after a restart.
func (c *Client) SystemHealth(ctx context.Context) (*SystemHealth, error) {
	h := &SystemHealth{}
	resp, err := c.req().SetContext(ctx).SetResult(h).Get("/api/system/health")
	if err := check("system health", resp, err); err != nil {
		return nil, err
	}
	return h, nil
}

// ConfigParams fetches the backend tunables (work hours, alert
// throttle, notification page size).
func (c *Client) ConfigParams(ctx context.Context) (*ConfigParams, error) {
	p := &ConfigParams{}
	resp, err := c.req().SetContext(ctx).SetResult(p).Get("/api/config/params")
	if err := check("config params", resp, err); err != nil {
		return nil, err
	}
	return p, nil
}

// RestartSystem asks the backend process to restart itself. The call
// returns as soon as the restart is scheduled; health checks pick up
// the process coming back.
func (c *Client) RestartSystem(ctx context.Context) error {
	resp, err := c.req().SetContext(ctx).Post("/api/system/restart")
	return check("system restart", resp, err)
}

// ShutdownSystem stops the backend process. It does not come back on
// its own.
func (c *Client) ShutdownSystem(ctx context.Context) error {
	resp, err := c.req().SetContext(ctx).Post("/api/system/shutdown")
	return check("system shutdown", resp, err)
}

// ResetLogs deletes event and/or alert log rows on the backend. Table
// is "events", "alert_logs", or "both"; empty dates mean all rows.
func (c *Client) ResetLogs(ctx context.Context, table, fromDate, toDate string) (*ResetResult, error) {
	body := map[string]any{"table": table}
	if fromDate != "" {
		body["from_date"] = fromDate
	}
	if toDate != "" {
		body["to_date"] = toDate
	}
	out := &ResetResult{}
	resp, err := c.req().SetContext(ctx).SetBody(body).SetResult(out).Post("/api/admin/reset_logs")
	if err := check("reset logs", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
