package api

import (
	"context"
	"fmt"
)

// LatestCaptures returns the newest rolling frame per camera, for the
// camera preview grid.
func (c *Client) LatestCaptures(ctx context.Context) ([]CameraCapture, error) {
	var out []CameraCapture
	resp, err := c.req().SetContext(ctx).SetResult(&out).Get("/api/captures/per_camera_latest")
	if err := check("latest captures", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// Captures lists recent manual captures, newest first.
func (c *Client) Captures(ctx context.Context, limit int) ([]Capture, error) {
	var out []Capture
	r := c.req().SetContext(ctx).SetResult(&out)
	if limit > 0 {
		r.SetQueryParam("limit", fmt.Sprint(limit))
	}
	resp, err := r.Get("/api/captures")
	if err := check("list captures", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveCapture uploads a frame as a base64 data URL and returns the
// stored item. The backend broadcasts capture_saved to all clients.
func (c *Client) SaveCapture(ctx context.Context, dataURL string, camID int64, area, note string) (*Capture, error) {
	var out struct {
		OK   bool    `json:"ok"`
		Item Capture `json:"item"`
	}
	resp, err := c.req().SetContext(ctx).
		SetBody(map[string]any{
			"image":  dataURL,
			"cam_id": camID,
			"area":   area,
			"note":   note,
		}).
		SetResult(&out).
		Post("/api/captures")
	if err := check("save capture", resp, err); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

// DeleteCapturesResult reports what a dated delete removed.
type DeleteCapturesResult struct {
	OK           bool   `json:"ok"`
	Date         string `json:"date"`
	FilesRemoved int64  `json:"files_removed"`
	LogRemoved   int64  `json:"log_removed"`
}

// DeleteCaptures removes all captures for a YYYY-MM-DD date. The
// backend requires the confirm flag; callers must have asked the user.
func (c *Client) DeleteCaptures(ctx context.Context, date string, confirmed bool) (*DeleteCapturesResult, error) {
	if !confirmed {
		return nil, fmt.Errorf("delete captures: not confirmed")
	}
	out := &DeleteCapturesResult{}
	resp, err := c.req().SetContext(ctx).
		SetQueryParam("date", date).
		SetQueryParam("confirm", "1").
		SetResult(out).
		Delete("/api/captures")
	if err := check("delete captures", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
