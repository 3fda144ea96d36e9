package stream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/realtime"
)

type fakeChannel struct {
	ops []string
}

func (f *fakeChannel) StartStream(camID int64) error {
	f.ops = append(f.ops, fmt.Sprintf("start:%d", camID))
	return nil
}

func (f *fakeChannel) StopStream() error {
	f.ops = append(f.ops, "stop")
	return nil
}

func TestSwitchStopsBeforeStart(t *testing.T) {
	ch := &fakeChannel{}
	s := NewSession(ch)

	if err := s.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(2); err != nil {
		t.Fatalf("switch: %v", err)
	}

	want := []string{"start:1", "stop", "start:2"}
	if len(ch.ops) != len(want) {
		t.Fatalf("ops = %v", ch.ops)
	}
	for i := range want {
		if ch.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", ch.ops, want)
		}
	}
	if cam, ok := s.Active(); !ok || cam != 2 {
		t.Errorf("active = %d, %v", cam, ok)
	}
}

func TestStopIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	s := NewSession(ch)

	if err := s.Stop(); err != nil {
		t.Fatalf("stop without stream: %v", err)
	}
	if len(ch.ops) != 0 {
		t.Fatalf("stop sent with nothing active: %v", ch.ops)
	}

	s.Start(1)
	s.Stop()
	if _, ok := s.Active(); ok {
		t.Error("still active after stop")
	}
}

func TestFramesForOtherCameraDropped(t *testing.T) {
	s := NewSession(&fakeChannel{})
	s.Start(1)

	img := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	s.HandleFrame(realtime.Frame{CamID: 9, Image: img})
	if _, frame := s.LastFrame(); frame != nil {
		t.Fatal("frame from inactive camera kept")
	}

	s.HandleFrame(realtime.Frame{CamID: 1, Image: img})
	cam, frame := s.LastFrame()
	if cam != 1 || string(frame) != "jpeg-bytes" {
		t.Errorf("frame = cam %d, %q", cam, frame)
	}
}

func TestStatusPushStopsDisabledStream(t *testing.T) {
	ch := &fakeChannel{}
	s := NewSession(ch)
	s.Start(1)

	off := false
	if err := s.HandleStatus(realtime.CameraStatus{CamID: 1, StreamEnabled: &off}); err != nil {
		t.Fatalf("handle status: %v", err)
	}
	if _, ok := s.Active(); ok {
		t.Error("stream still active after disable push")
	}

	// A disable push for another camera changes nothing.
	s.Start(2)
	if err := s.HandleStatus(realtime.CameraStatus{CamID: 1, StreamEnabled: &off}); err != nil {
		t.Fatalf("handle status: %v", err)
	}
	if _, ok := s.Active(); !ok {
		t.Error("unaffected stream stopped")
	}
}

func TestAIStatusTracked(t *testing.T) {
	s := NewSession(&fakeChannel{})
	s.Start(1)

	on := true
	s.HandleStatus(realtime.CameraStatus{CamID: 1, AIRunning: &on})
	if !s.AIRunning() {
		t.Error("AI flag not tracked")
	}
}

func TestStalled(t *testing.T) {
	s := NewSession(&fakeChannel{})
	clock := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	s.Start(1)
	if s.Stalled(5 * time.Second) {
		t.Fatal("stalled before first frame")
	}

	img := base64.StdEncoding.EncodeToString([]byte("x"))
	s.HandleFrame(realtime.Frame{CamID: 1, Image: img})

	clock = clock.Add(3 * time.Second)
	if s.Stalled(5 * time.Second) {
		t.Fatal("stalled too early")
	}
	clock = clock.Add(4 * time.Second)
	if !s.Stalled(5 * time.Second) {
		t.Fatal("stall not detected")
	}

	s.HandleStopped()
	if s.Stalled(5 * time.Second) {
		t.Fatal("stalled after explicit stop push")
	}
}

type fakeCaptureBackend struct {
	snapshot    []byte
	snapshotErr error
	saved       []string
}

func (f *fakeCaptureBackend) Snapshot(ctx context.Context, camID int64, annotate bool) ([]byte, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeCaptureBackend) SaveCapture(ctx context.Context, dataURL string, camID int64, area, note string) (*api.Capture, error) {
	f.saved = append(f.saved, dataURL)
	return &api.Capture{URL: "/captures/x.jpg", Note: note}, nil
}

func TestCapturePrefersSnapshot(t *testing.T) {
	s := NewSession(&fakeChannel{})
	be := &fakeCaptureBackend{snapshot: []byte("annotated")}

	item, err := s.Capture(context.Background(), be, 1, "Lobby", "note")
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if item.URL == "" || len(be.saved) != 1 {
		t.Fatalf("saved = %v", be.saved)
	}
	wantB64 := base64.StdEncoding.EncodeToString([]byte("annotated"))
	if !strings.HasSuffix(be.saved[0], wantB64) {
		t.Errorf("data url = %q", be.saved[0])
	}
}

func TestCaptureFallsBackToLiveFrame(t *testing.T) {
	s := NewSession(&fakeChannel{})
	s.Start(1)
	s.HandleFrame(realtime.Frame{CamID: 1, Image: base64.StdEncoding.EncodeToString([]byte("live"))})

	be := &fakeCaptureBackend{snapshotErr: errors.New("unavailable")}
	if _, err := s.Capture(context.Background(), be, 1, "", ""); err != nil {
		t.Fatalf("capture: %v", err)
	}
	wantB64 := base64.StdEncoding.EncodeToString([]byte("live"))
	if !strings.HasSuffix(be.saved[0], wantB64) {
		t.Errorf("data url = %q", be.saved[0])
	}
}

func TestCaptureNoFrame(t *testing.T) {
	s := NewSession(&fakeChannel{})
	be := &fakeCaptureBackend{snapshotErr: errors.New("unavailable")}

	_, err := s.Capture(context.Background(), be, 1, "", "")
	if !errors.Is(err, ErrNoFrame) {
		t.Fatalf("err = %v, want ErrNoFrame", err)
	}
	if len(be.saved) != 0 {
		t.Error("capture saved without a frame")
	}
}
