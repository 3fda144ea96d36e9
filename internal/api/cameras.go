package api

import (
	"context"
	"fmt"
)

// Cameras lists configured cameras, sorted by id on the backend.
func (c *Client) Cameras(ctx context.Context) ([]Camera, error) {
	var cams []Camera
	resp, err := c.req().SetContext(ctx).SetResult(&cams).Get("/api/cameras")
	if err := check("list cameras", resp, err); err != nil {
		return nil, err
	}
	return cams, nil
}

// CameraStatuses polls the per-camera AI and stream flags.
func (c *Client) CameraStatuses(ctx context.Context) ([]CameraStatus, error) {
	var out cameraStatusList
	resp, err := c.req().SetContext(ctx).SetResult(&out).Get("/api/cameras/status")
	if err := check("camera statuses", resp, err); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddCamera registers a new camera. Name and rtspURL are required; a
// zero id lets the backend pick the next free one.
func (c *Client) AddCamera(ctx context.Context, name, rtspURL, area string, id int64) (int64, error) {
	if name == "" || rtspURL == "" {
		return 0, fmt.Errorf("add camera: name and rtsp_url are required")
	}
	body := map[string]any{"name": name, "rtsp_url": rtspURL, "area": area}
	if id > 0 {
		body["id"] = id
	}
	var out struct {
		OK     bool   `json:"ok"`
		Camera Camera `json:"camera"`
	}
	resp, err := c.req().SetContext(ctx).SetBody(body).SetResult(&out).Post("/api/cameras")
	if err := check("add camera", resp, err); err != nil {
		return 0, err
	}
	return out.Camera.ID, nil
}

// Snapshot fetches a still frame as JPEG bytes. With annotate the
// backend draws detection boxes on the frame.
func (c *Client) Snapshot(ctx context.Context, camID int64, annotate bool) ([]byte, error) {
	r := c.http.R().SetContext(ctx)
	if annotate {
		r.SetQueryParam("annotate", "1")
	}
	resp, err := r.Get(fmt.Sprintf("/api/cameras/%d/snapshot", camID))
	if err != nil {
		return nil, fmt.Errorf("snapshot cam %d: %w", camID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("snapshot cam %d: status %d", camID, resp.StatusCode())
	}
	return resp.Body(), nil
}

// SnapshotURL returns the still-frame endpoint for a camera. With
// annotate the backend draws detection boxes on the frame.
func (c *Client) SnapshotURL(camID int64, annotate bool) string {
	u := fmt.Sprintf("%s/api/cameras/%d/snapshot", c.BaseURL(), camID)
	if annotate {
		u += "?annotate=1"
	}
	return u
}
