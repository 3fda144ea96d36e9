package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// echoServer accepts one connection, pushes the given envelopes, then
// records everything the client sends.
type echoServer struct {
	push     []Envelope
	received chan Envelope
}

func (s *echoServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ctx := r.Context()

		for _, env := range s.push {
			data, _ := json.Marshal(env)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var env Envelope
			if json.Unmarshal(data, &env) == nil {
				s.received <- env
			}
		}
	})
}

func startClient(t *testing.T, s *echoServer) *Client {
	t.Helper()
	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := New("ws" + strings.TrimPrefix(srv.URL, "http"))
	go c.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for !c.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("client never connected")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c
}

func TestReceiveEvents(t *testing.T) {
	frame, _ := json.Marshal(Frame{CamID: 3, Image: "aGVsbG8="})
	alert, _ := json.Marshal(AlertLog{EmployeeID: 7, AlertType: "ENTER", Timestamp: "2026-09-01T08:00:00Z"})
	s := &echoServer{
		push: []Envelope{
			{Event: EventFrame, Data: frame},
			{Event: EventAlertLog, Data: alert},
		},
		received: make(chan Envelope, 8),
	}
	c := startClient(t, s)

	env := waitEvent(t, c, EventFrame)
	var f Frame
	if err := env.Decode(&f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.CamID != 3 || f.Image != "aGVsbG8=" {
		t.Errorf("frame = %+v", f)
	}

	env = waitEvent(t, c, EventAlertLog)
	var a AlertLog
	if err := env.Decode(&a); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if a.EmployeeID != 7 || a.AlertType != "ENTER" {
		t.Errorf("alert = %+v", a)
	}
}

func TestCommandsCarryIDs(t *testing.T) {
	s := &echoServer{received: make(chan Envelope, 8)}
	c := startClient(t, s)

	if err := c.StartStream(5); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	env := waitReceived(t, s)
	if env.Event != "start_stream" {
		t.Errorf("event = %q", env.Event)
	}
	if _, err := uuid.Parse(env.ID); err != nil {
		t.Errorf("command id %q not a uuid: %v", env.ID, err)
	}
	var body struct {
		CamID int64 `json:"cam_id"`
	}
	if err := env.Decode(&body); err != nil || body.CamID != 5 {
		t.Errorf("payload = %s, err = %v", env.Data, err)
	}

	if err := c.ToggleAI(2, true); err != nil {
		t.Fatalf("ToggleAI: %v", err)
	}
	env = waitReceived(t, s)
	if env.Event != "toggle_ai" {
		t.Errorf("event = %q", env.Event)
	}

	if err := c.StopStream(); err != nil {
		t.Fatalf("StopStream: %v", err)
	}
	if env = waitReceived(t, s); env.Event != "stop_stream" {
		t.Errorf("event = %q", env.Event)
	}
}

func TestSendWithoutConnection(t *testing.T) {
	c := New("ws://127.0.0.1:1/socket")
	if err := c.StartStream(1); err == nil {
		t.Fatal("expected error when disconnected")
	}
}

func waitEvent(t *testing.T, c *Client, name string) Envelope {
	t.Helper()
	for {
		select {
		case env := <-c.Events():
			if env.Event == name {
				return env
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}

func waitReceived(t *testing.T, s *echoServer) Envelope {
	t.Helper()
	select {
	case env := <-s.received:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
		return Envelope{}
	}
}
