// Package format holds the human-facing formatting helpers shared by the
// dashboard views and CLI output: timestamps, byte sizes, and the lossy
// duration bucketing used in presence alerts.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// Ts renders a timestamp as "2006-01-02 | 15:04:05" in local time.
// Accepts RFC3339, "2006-01-02 15:04:05", or epoch milliseconds as a
// string; anything unparseable is returned as-is.
func Ts(val string) string {
	if val == "" {
		return ""
	}
	t, ok := parseTime(val)
	if !ok {
		return val
	}
	return t.Local().Format("2006-01-02 | 15:04:05")
}

// TimeOnly renders just the clock part, "15:04:05".
func TimeOnly(val string) string {
	if val == "" {
		return ""
	}
	t, ok := parseTime(val)
	if !ok {
		return val
	}
	return t.Local().Format("15:04:05")
}

func parseTime(val string) (time.Time, bool) {
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, val, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Bytes renders a byte count with a binary unit, e.g. "1.5 GB".
// Non-positive values render as an em-dash placeholder.
func Bytes(n int64) string {
	if n <= 0 {
		return "-"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i >= 2 {
		return fmt.Sprintf("%.1f %s", v, units[i])
	}
	return fmt.Sprintf("%.0f %s", v, units[i])
}

// Duration buckets a second count into a coarse human string:
// <60s -> "42s", <1h -> "7 min", <1d -> "3 h", else "2 d".
// This is display-only and never feeds a timing decision.
func Duration(sec int64) string {
	switch {
	case sec < 60:
		return fmt.Sprintf("%ds", sec)
	case sec < 3600:
		return fmt.Sprintf("%d min", sec/60)
	case sec < 86400:
		return fmt.Sprintf("%d h", sec/3600)
	default:
		return fmt.Sprintf("%d d", sec/86400)
	}
}

// DurationAgo is Duration with an "ago" suffix; a nil second count
// renders as the placeholder.
func DurationAgo(sec *int64) string {
	if sec == nil {
		return "-"
	}
	return Duration(*sec) + " ago"
}

// AlertType maps legacy stored alert types to their display names.
func AlertType(t string) string {
	switch t {
	case "RESOLVED":
		return "ENTER"
	case "BACK_TO_AREA":
		return "EXIT"
	default:
		return t
	}
}
