// Package notify is the dashboard notification center: a deduplicated,
// capped feed of presence transitions and system messages, persisted
// through the local store so history survives restarts.
package notify

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/hartono/pantau/internal/store"
)

const (
	// recentCap bounds the in-memory dedup set; when it overflows the
	// oldest keys are dropped down to recentKeep.
	recentCap  = 100
	recentKeep = 80

	// seedCount is how many stored keys seed the dedup set on startup,
	// so a restart does not replay the latest transitions.
	seedCount = 30

	// bellThrottle is the minimum gap between audible alerts.
	bellThrottle = 1500 * time.Millisecond
)

// Kind classifies a notification.
type Kind string

const (
	KindEnter Kind = "enter"
	KindExit  Kind = "exit"
	KindInfo  Kind = "info"
)

// Center manages the notification feed. All methods are safe for
// concurrent use.
type Center struct {
	mu          sync.Mutex
	db          *sql.DB
	pageSize    int
	visible     int
	unread      int
	recent      map[string]struct{}
	recentOrder []string
	lastBellAt  time.Time
	now         func() time.Time
	onChange    func()
}

// New builds a Center backed by db. The dedup set is seeded from the
// most recent stored notifications and the unread badge restored.
func New(db *sql.DB, pageSize int) (*Center, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	c := &Center{
		db:       db,
		pageSize: pageSize,
		visible:  pageSize,
		recent:   make(map[string]struct{}),
		now:      time.Now,
	}

	keys, err := store.RecentDedupKeys(db, seedCount)
	if err != nil {
		return nil, fmt.Errorf("seed dedup keys: %w", err)
	}
	// Stored keys come newest first; replay oldest first so trim order
	// matches insertion order.
	for i := len(keys) - 1; i >= 0; i-- {
		c.remember(keys[i])
	}

	unread, err := store.UnreadCount(db)
	if err != nil {
		return nil, fmt.Errorf("restore unread count: %w", err)
	}
	c.unread = unread
	return c, nil
}

// SetOnChange registers a callback fired after every mutation, with no
// locks held. The TUI uses it to request a redraw.
func (c *Center) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Push records a notification deduplicated by its message text.
// Returns true when the notification was new.
func (c *Center) Push(kind Kind, message string) (bool, error) {
	return c.PushKeyed(message, kind, message)
}

// PushKeyed records a notification deduplicated by an explicit key.
// A key already in the recent set is dropped silently.
func (c *Center) PushKeyed(key string, kind Kind, message string) (bool, error) {
	c.mu.Lock()
	if _, dup := c.recent[key]; dup {
		c.mu.Unlock()
		return false, nil
	}
	c.remember(key)
	c.unread++
	fn := c.onChange
	c.mu.Unlock()

	if _, err := store.InsertNotification(c.db, key, string(kind), message); err != nil {
		// The key must not poison the dedup set: a message that never
		// reached the store can still be delivered by a later push.
		c.mu.Lock()
		c.forget(key)
		c.unread--
		c.mu.Unlock()
		return false, err
	}
	if fn != nil {
		fn()
	}
	return true, nil
}

// remember adds a key to the dedup set, trimming oldest entries when
// the set overflows. Caller holds the lock.
func (c *Center) remember(key string) {
	if _, ok := c.recent[key]; ok {
		return
	}
	c.recent[key] = struct{}{}
	c.recentOrder = append(c.recentOrder, key)
	if len(c.recentOrder) > recentCap {
		drop := c.recentOrder[:len(c.recentOrder)-recentKeep]
		for _, k := range drop {
			delete(c.recent, k)
		}
		c.recentOrder = append([]string(nil), c.recentOrder[len(c.recentOrder)-recentKeep:]...)
	}
}

// forget removes a key from the dedup set. Caller holds the lock.
func (c *Center) forget(key string) {
	if _, ok := c.recent[key]; !ok {
		return
	}
	delete(c.recent, key)
	for i := len(c.recentOrder) - 1; i >= 0; i-- {
		if c.recentOrder[i] == key {
			c.recentOrder = append(c.recentOrder[:i], c.recentOrder[i+1:]...)
			break
		}
	}
}

// Visible returns the currently expanded window of the feed, newest
// first, plus whether more history remains beyond it.
func (c *Center) Visible() ([]store.Notification, bool, error) {
	c.mu.Lock()
	n := c.visible
	c.mu.Unlock()

	rows, err := store.ListNotifications(c.db, n+1, 0)
	if err != nil {
		return nil, false, err
	}
	if len(rows) > n {
		return rows[:n], true, nil
	}
	return rows, false, nil
}

// LoadMore expands the visible window by one page.
func (c *Center) LoadMore() {
	c.mu.Lock()
	c.visible += c.pageSize
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Unread returns the badge count.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// MarkAllRead clears the badge, typically when the feed panel opens.
func (c *Center) MarkAllRead() error {
	c.mu.Lock()
	c.unread = 0
	fn := c.onChange
	c.mu.Unlock()

	if err := store.MarkAllRead(c.db); err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

// Clear wipes the feed and collapses the window back to one page. The
// dedup set is kept so cleared transitions do not immediately repeat.
func (c *Center) Clear() error {
	c.mu.Lock()
	c.visible = c.pageSize
	c.unread = 0
	fn := c.onChange
	c.mu.Unlock()

	if err := store.ClearNotifications(c.db); err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

// ShouldBell reports whether an audible alert may fire now, enforcing
// the throttle between rings.
func (c *Center) ShouldBell() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastBellAt) < bellThrottle {
		return false
	}
	c.lastBellAt = now
	return true
}
