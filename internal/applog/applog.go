// Package applog writes a structured key=value log file. The dashboard
// runs unattended for days and polls every couple of seconds, so the
// log rotates while running and repeated errors for the same event are
// collapsed instead of flooding the file.
package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	maxFileSize = 5 << 20 // 5 MB
	maxValueLen = 200
	truncSuffix = "…"

	// repeatWindow suppresses identical error events inside the
	// window; the first line after it reports how many were dropped.
	repeatWindow = 30 * time.Second
)

var (
	mu      sync.Mutex
	file    *os.File
	path    string
	written int64

	lastErrAt  map[string]time.Time
	suppressed map[string]int
)

// Init opens the log file for appending. Call once at startup.
// Safe to skip; all log calls become no-ops if not initialized.
func Init(dir string) error {
	p := filepath.Join(dir, "pantau.log")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(p); err == nil {
		size = info.Size()
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	mu.Lock()
	file = f
	path = p
	written = size
	lastErrAt = make(map[string]time.Time)
	suppressed = make(map[string]int)
	mu.Unlock()
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

// Info logs a structured event line.
//
//	applog.Info("start", "base_url", url)
//	applog.Info("layout_change", "area", area)
func Info(event string, kv ...any) {
	write("INFO", event, nil, kv)
}

// Error logs an event with an error. Repeats of the same event within
// the suppression window are counted, not written.
//
//	applog.Error("tracking_poll", err)
func Error(event string, err error, kv ...any) {
	mu.Lock()
	if file == nil {
		mu.Unlock()
		return
	}
	now := time.Now()
	if last, ok := lastErrAt[event]; ok && now.Sub(last) < repeatWindow {
		suppressed[event]++
		mu.Unlock()
		return
	}
	lastErrAt[event] = now
	dropped := suppressed[event]
	suppressed[event] = 0
	mu.Unlock()

	if dropped > 0 {
		kv = append(kv, "repeats_suppressed", dropped)
	}
	write("ERROR", event, err, kv)
}

func write(level, event string, err error, kv []any) {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(event)

	if err != nil {
		b.WriteString(" err=")
		b.WriteString(quote(err.Error()))
	}

	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(kv[i]))
		b.WriteByte('=')
		b.WriteString(quote(fmt.Sprint(kv[i+1])))
	}
	b.WriteByte('\n')
	line := b.String()

	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return
	}

	// The process is long-lived, so the size cap has to hold while
	// running, not just across restarts.
	if written+int64(len(line)) > maxFileSize {
		rotateLocked()
	}
	if n, err := file.WriteString(line); err == nil {
		written += int64(n)
	}
}

// rotateLocked renames the current file to .1 and reopens. Caller
// holds the lock.
func rotateLocked() {
	file.Close()
	os.Rename(path, path+".1")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		file = nil
		return
	}
	file = f
	written = 0
}

func quote(s string) string {
	if len(s) > maxValueLen {
		s = s[:maxValueLen] + truncSuffix
	}
	if strings.ContainsAny(s, " \t\n\"") {
		return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
	}
	return s
}
