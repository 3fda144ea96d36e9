// Package config resolves the pantau client configuration from the
// environment. A .env file in the working directory is honored when
// present; flags parsed in main take precedence over everything here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the dashboard and CLI subcommands need to
// reach the backend and to place local state.
type Config struct {
	// BaseURL is the backend HTTP root, e.g. http://192.168.1.20:5000.
	BaseURL string
	// RealtimeURL is the websocket endpoint for the event channel.
	// Empty means derive from BaseURL (ws://host/socket).
	RealtimeURL string

	// DataDir holds the local sqlite database and the log file.
	DataDir string

	// Poll intervals. The tracking interval is the heartbeat of the
	// presence panel; the rest are background refreshers.
	TrackingInterval time.Duration
	ScheduleInterval time.Duration
	SystemInterval   time.Duration
	CaptureInterval  time.Duration
	ReportInterval   time.Duration

	// FilterDebounce delays report re-fetches after a filter edit.
	FilterDebounce time.Duration
	// LayoutDebounce delays the camera-grid refresh after a layout change.
	LayoutDebounce time.Duration

	// NotificationLimit is the page size of the notification dropdown.
	NotificationLimit int
}

// Load resolves the configuration from PANTAU_* environment variables,
// loading a .env file first if one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		BaseURL:           envStr("PANTAU_BASE_URL", "http://127.0.0.1:5000"),
		RealtimeURL:       os.Getenv("PANTAU_REALTIME_URL"),
		DataDir:           envStr("PANTAU_DATA_DIR", defaultDataDir()),
		TrackingInterval:  envDuration("PANTAU_TRACKING_INTERVAL", 2*time.Second),
		ScheduleInterval:  envDuration("PANTAU_SCHEDULE_INTERVAL", 20*time.Second),
		SystemInterval:    envDuration("PANTAU_SYSTEM_INTERVAL", 10*time.Second),
		CaptureInterval:   envDuration("PANTAU_CAPTURE_INTERVAL", 5*time.Second),
		ReportInterval:    envDuration("PANTAU_REPORT_INTERVAL", 5*time.Second),
		FilterDebounce:    envDuration("PANTAU_FILTER_DEBOUNCE", 250*time.Millisecond),
		LayoutDebounce:    envDuration("PANTAU_LAYOUT_DEBOUNCE", 150*time.Millisecond),
		NotificationLimit: envInt("PANTAU_NOTIFICATION_LIMIT", 10),
	}
}

// DBPath returns the sqlite database path inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "pantau.db")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pantau"
	}
	return filepath.Join(home, ".local", "share", "pantau")
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}
