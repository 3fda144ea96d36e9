package api

import "context"

// TrackingState fetches the live presence snapshot the dashboard polls.
func (c *Client) TrackingState(ctx context.Context) (*TrackingSnapshot, error) {
	snap := &TrackingSnapshot{}
	resp, err := c.req().SetContext(ctx).SetResult(snap).Get("/api/tracking/state")
	if err := check("tracking state", resp, err); err != nil {
		return nil, err
	}
	return snap, nil
}

// StartTracking asks the backend to start the AI tracking pipeline.
func (c *Client) StartTracking(ctx context.Context) error {
	resp, err := c.req().SetContext(ctx).Post("/api/tracking/start")
	return check("tracking start", resp, err)
}

// StopTracking asks the backend to stop the AI tracking pipeline.
func (c *Client) StopTracking(ctx context.Context) error {
	resp, err := c.req().SetContext(ctx).Post("/api/tracking/stop")
	return check("tracking stop", resp, err)
}

// ReloadEmbeddings reloads face templates on the backend, needed after
// employee face changes.
func (c *Client) ReloadEmbeddings(ctx context.Context) error {
	resp, err := c.req().SetContext(ctx).Post("/api/tracking/reload_embeddings")
	return check("reload embeddings", resp, err)
}

// RecordAlert persists a presence transition on the backend. The
// backend also updates today's attendance last-out time for EXIT.
func (c *Client) RecordAlert(ctx context.Context, employeeID int64, alertType, message string, cameraID *int64) error {
	body := map[string]any{
		"employee_id": employeeID,
		"alert_type":  alertType,
		"message":     message,
	}
	if cameraID != nil {
		body["camera_id"] = *cameraID
	}
	resp, err := c.req().SetContext(ctx).SetBody(body).Post("/api/alert_logs")
	return check("record alert", resp, err)
}
