// Package realtime maintains the websocket channel to the backend:
// live stream frames, capture broadcasts, camera status pushes, and
// alert events. Messages are JSON envelopes with an event name and a
// payload; commands to the backend carry a generated id.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/hartono/pantau/internal/applog"
)

// Event names pushed by the backend.
const (
	EventFrame           = "frame"
	EventStreamError     = "stream_error"
	EventStreamStopped   = "stream_stopped"
	EventCaptureSaved    = "capture_saved"
	EventCapturesDeleted = "captures_deleted"
	EventCameraStatus    = "camera_status"
	EventCameraStatuses  = "camera_statuses"
	EventAlertLog        = "alert_log"
)

// Envelope is one wire message in either direction.
type Envelope struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.Event, err)
	}
	return nil
}

// Frame is one streamed JPEG frame, base64 encoded.
type Frame struct {
	CamID int64  `json:"cam_id"`
	Image string `json:"image"`
}

type StreamError struct {
	Message string `json:"message"`
}

type StreamStopped struct {
	CamID int64 `json:"cam_id"`
}

type CapturesDeleted struct {
	Date         string `json:"date"`
	FilesRemoved int64  `json:"files_removed"`
	LogRemoved   int64  `json:"log_removed"`
}

// CameraStatus is a partial per-camera status push; nil fields were
// not part of the update.
type CameraStatus struct {
	CamID         int64  `json:"cam_id"`
	Name          string `json:"name,omitempty"`
	AIRunning     *bool  `json:"ai_running,omitempty"`
	StreamEnabled *bool  `json:"stream_enabled,omitempty"`
}

type CameraStatuses struct {
	Items []CameraStatus `json:"items"`
}

// AlertLog is a live presence transition broadcast to all clients.
type AlertLog struct {
	EmployeeID   int64   `json:"employee_id"`
	AlertType    string  `json:"alert_type"`
	Message      *string `json:"message"`
	Timestamp    string  `json:"timestamp"`
	EmployeeName *string `json:"employee_name"`
	Department   *string `json:"department"`
}

// Client is the dial side of the event channel. Run keeps the
// connection alive; consumers drain Events.
type Client struct {
	url    string
	events chan Envelope

	mu      sync.Mutex
	conn    *websocket.Conn
	connCtx context.Context
}

// New builds a client for the given ws:// or wss:// endpoint.
func New(url string) *Client {
	return &Client{
		url:    url,
		events: make(chan Envelope, 64),
	}
}

// Events returns the channel of backend pushes. Events are dropped,
// not buffered without bound, when the consumer falls behind.
func (c *Client) Events() <-chan Envelope {
	return c.events
}

// Connected reports whether the channel is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Run dials the backend and reads events until ctx is canceled,
// redialing with a fixed backoff after every drop.
func (c *Client) Run(ctx context.Context) error {
	const backoff = 2 * time.Second
	for {
		if err := c.runOnce(ctx); err != nil && ctx.Err() == nil {
			applog.Error("realtime.disconnected", err, "url", c.url)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(16 << 20) // streamed frames are large

	c.mu.Lock()
	c.conn = conn
	c.connCtx = ctx
	c.mu.Unlock()
	applog.Info("realtime.connected", "url", c.url)

	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.connCtx = nil
		}
		c.mu.Unlock()
		conn.CloseNow()
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			applog.Error("realtime.parse", err)
			continue
		}
		select {
		case c.events <- env:
		default:
		}
	}
}

// send emits a command envelope with a fresh id.
func (c *Client) send(event string, data any) error {
	c.mu.Lock()
	conn := c.conn
	ctx := c.connCtx
	c.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("send %s: not connected", event)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	env := Envelope{Event: event, ID: uuid.NewString(), Data: raw}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	applog.Info("realtime.send", "event", event, "id", env.ID)
	return conn.Write(ctx, websocket.MessageText, payload)
}

// StartStream asks the backend to stream frames for one camera. The
// backend replaces any stream this client already had.
func (c *Client) StartStream(camID int64) error {
	return c.send("start_stream", map[string]any{"cam_id": camID})
}

// StopStream stops this client's stream.
func (c *Client) StopStream() error {
	return c.send("stop_stream", map[string]any{})
}

// ToggleStream enables or disables streaming for a camera, persisted
// on the backend.
func (c *Client) ToggleStream(camID int64, enable bool) error {
	return c.send("toggle_stream", map[string]any{"cam_id": camID, "enable": enable})
}

// ToggleAI starts or stops AI tracking for a camera.
func (c *Client) ToggleAI(camID int64, enable bool) error {
	return c.send("toggle_ai", map[string]any{"cam_id": camID, "enable": enable})
}

// RequestCameraStatuses asks for a camera_statuses push.
func (c *Client) RequestCameraStatuses() error {
	return c.send("get_camera_statuses", map[string]any{})
}
