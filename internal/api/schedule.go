package api

import (
	"context"
	"fmt"
)

// ScheduleState fetches the tracking schedule machine state.
func (c *Client) ScheduleState(ctx context.Context) (*ScheduleState, error) {
	st := &ScheduleState{}
	resp, err := c.req().SetContext(ctx).SetResult(st).Get("/api/schedule/state")
	if err := check("schedule state", resp, err); err != nil {
		return nil, err
	}
	return st, nil
}

// SetScheduleMode applies a partial schedule update. Manual overrides
// of tracking_active and suppress_alerts only take effect while
// auto_schedule is off.
func (c *Client) SetScheduleMode(ctx context.Context, u ScheduleUpdate) (*ScheduleState, error) {
	var out struct {
		OK    bool          `json:"ok"`
		State ScheduleState `json:"state"`
	}
	resp, err := c.req().SetContext(ctx).SetBody(u).SetResult(&out).Post("/api/schedule/mode")
	if err := check("schedule mode", resp, err); err != nil {
		return nil, err
	}
	return &out.State, nil
}

// PauseSchedule pauses tracking for a number of minutes. Kind is
// "lunch" or "offhours"; anything else falls back to offhours on the
// backend.
func (c *Client) PauseSchedule(ctx context.Context, minutes int, kind string) (*ScheduleState, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("schedule pause: minutes must be positive")
	}
	var out struct {
		OK    bool          `json:"ok"`
		State ScheduleState `json:"state"`
	}
	resp, err := c.req().SetContext(ctx).
		SetBody(map[string]any{"minutes": minutes, "kind": kind}).
		SetResult(&out).
		Post("/api/schedule/pause")
	if err := check("schedule pause", resp, err); err != nil {
		return nil, err
	}
	return &out.State, nil
}
