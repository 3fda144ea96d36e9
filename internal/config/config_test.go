package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.BaseURL != "http://127.0.0.1:5000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TrackingInterval != 2*time.Second {
		t.Errorf("TrackingInterval = %v", cfg.TrackingInterval)
	}
	if cfg.NotificationLimit != 10 {
		t.Errorf("NotificationLimit = %d", cfg.NotificationLimit)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir empty")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PANTAU_BASE_URL", "http://10.0.0.5:8080")
	t.Setenv("PANTAU_TRACKING_INTERVAL", "500ms")
	t.Setenv("PANTAU_NOTIFICATION_LIMIT", "25")

	cfg := Load()
	if cfg.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TrackingInterval != 500*time.Millisecond {
		t.Errorf("TrackingInterval = %v", cfg.TrackingInterval)
	}
	if cfg.NotificationLimit != 25 {
		t.Errorf("NotificationLimit = %d", cfg.NotificationLimit)
	}
}

func TestEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("PANTAU_TRACKING_INTERVAL", "soon")
	t.Setenv("PANTAU_NOTIFICATION_LIMIT", "-3")

	cfg := Load()
	if cfg.TrackingInterval != 2*time.Second {
		t.Errorf("TrackingInterval = %v", cfg.TrackingInterval)
	}
	if cfg.NotificationLimit != 10 {
		t.Errorf("NotificationLimit = %d", cfg.NotificationLimit)
	}
}

func TestDBPath(t *testing.T) {
	cfg := Config{DataDir: "/tmp/x"}
	if got := cfg.DBPath(); got != "/tmp/x/pantau.db" {
		t.Errorf("DBPath = %q", got)
	}
}
