package tui

import (
	"errors"
	"testing"
)

func TestCameraLoadRetriesOnce(t *testing.T) {
	m := Model{}

	next, cmd := m.Update(camerasLoadedMsg{err: errors.New("connection refused")})
	if cmd == nil {
		t.Fatal("first failure scheduled no retry")
	}

	m = next.(Model)
	if _, cmd := m.Update(camerasLoadedMsg{err: errors.New("connection refused")}); cmd != nil {
		t.Fatal("second failure scheduled another retry")
	}
}
