// Package stream manages the live view session: which camera streams
// to this client, frame freshness, and manual frame capture with its
// snapshot fallback chain. The backend serves one stream per client,
// so switching cameras always stops the old stream first.
package stream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/realtime"
)

// ErrNoFrame means neither a snapshot nor a live frame was available
// for the capture.
var ErrNoFrame = errors.New("no frame available")

// Channel is the realtime slice the session drives.
type Channel interface {
	StartStream(camID int64) error
	StopStream() error
}

// CaptureBackend is the API slice used by manual captures.
type CaptureBackend interface {
	Snapshot(ctx context.Context, camID int64, annotate bool) ([]byte, error)
	SaveCapture(ctx context.Context, dataURL string, camID int64, area, note string) (*api.Capture, error)
}

// Session tracks the single active stream. Safe for concurrent use.
type Session struct {
	ch Channel

	mu          sync.Mutex
	current     *int64
	aiRunning   bool
	lastFrameAt time.Time
	frame       []byte
	frameCam    int64
	onFrame     func(camID int64, jpeg []byte)
	now         func() time.Time
}

func NewSession(ch Channel) *Session {
	return &Session{ch: ch, now: time.Now}
}

// SetOnFrame registers a callback per decoded frame, invoked with no
// locks held.
func (s *Session) SetOnFrame(fn func(camID int64, jpeg []byte)) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// Start switches the stream to camID, stopping any active stream
// first so the backend never serves two streams to this client.
func (s *Session) Start(camID int64) error {
	s.mu.Lock()
	prev := s.current
	s.current = &camID
	s.lastFrameAt = time.Time{}
	s.mu.Unlock()

	if prev != nil {
		if err := s.ch.StopStream(); err != nil {
			return fmt.Errorf("stop previous stream: %w", err)
		}
	}
	if err := s.ch.StartStream(camID); err != nil {
		return fmt.Errorf("start stream cam %d: %w", camID, err)
	}
	return nil
}

// Stop ends the active stream, if any.
func (s *Session) Stop() error {
	s.mu.Lock()
	active := s.current != nil
	s.current = nil
	s.lastFrameAt = time.Time{}
	s.mu.Unlock()

	if !active {
		return nil
	}
	return s.ch.StopStream()
}

// Active returns the streaming camera id.
func (s *Session) Active() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0, false
	}
	return *s.current, true
}

// AIRunning reports the AI flag last pushed for the active camera.
func (s *Session) AIRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiRunning
}

// HandleFrame ingests a streamed frame. Frames for a camera other
// than the active one are dropped; they belong to a stream that was
// already switched away from.
func (s *Session) HandleFrame(f realtime.Frame) {
	s.mu.Lock()
	if s.current == nil || *s.current != f.CamID {
		s.mu.Unlock()
		return
	}
	jpeg, err := base64.StdEncoding.DecodeString(f.Image)
	if err != nil {
		s.mu.Unlock()
		return
	}
	s.frame = jpeg
	s.frameCam = f.CamID
	s.lastFrameAt = s.now()
	fn := s.onFrame
	s.mu.Unlock()

	if fn != nil {
		fn(f.CamID, jpeg)
	}
}

// HandleStatus reacts to a camera status push: disabling the active
// camera's stream stops the session, and AI state updates the badge.
func (s *Session) HandleStatus(st realtime.CameraStatus) error {
	s.mu.Lock()
	activeMatch := s.current != nil && *s.current == st.CamID
	if activeMatch && st.AIRunning != nil {
		s.aiRunning = *st.AIRunning
	}
	stop := activeMatch && st.StreamEnabled != nil && !*st.StreamEnabled
	s.mu.Unlock()

	if stop {
		return s.Stop()
	}
	return nil
}

// HandleStopped marks the stream idle after a backend stream_stopped
// push. The selection is kept so the user can restart it.
func (s *Session) HandleStopped() {
	s.mu.Lock()
	s.lastFrameAt = time.Time{}
	s.mu.Unlock()
}

// Stalled reports whether frames stopped arriving for longer than gap
// on a stream that had already delivered at least one frame.
func (s *Session) Stalled(gap time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.lastFrameAt.IsZero() {
		return false
	}
	return s.now().Sub(s.lastFrameAt) > gap
}

// LastFrame returns the newest decoded frame and its camera.
func (s *Session) LastFrame() (int64, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCam, s.frame
}

// Capture saves a manual frame capture for camID. It prefers a fresh
// annotated snapshot from the backend, falls back to the last live
// frame of that camera, and fails with ErrNoFrame when neither exists.
func (s *Session) Capture(ctx context.Context, be CaptureBackend, camID int64, area, note string) (*api.Capture, error) {
	img, err := be.Snapshot(ctx, camID, true)
	if err != nil || len(img) == 0 {
		if cam, frame := s.LastFrame(); len(frame) > 0 && cam == camID {
			img = frame
		} else {
			return nil, ErrNoFrame
		}
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)
	return be.SaveCapture(ctx, dataURL, camID, area, note)
}
