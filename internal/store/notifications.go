package store

import (
	"database/sql"
	"fmt"
	"time"
)

// historyCap bounds the notifications table. Oldest rows are trimmed
// after each insert.
const historyCap = 200

// Notification is one row of the notification history.
type Notification struct {
	ID        int64
	DedupKey  string
	Kind      string // "enter", "exit", or "info"
	Message   string
	CreatedAt time.Time
	Read      bool
}

// InsertNotification appends a notification and trims the history to
// the cap. Dedup against recent keys is the caller's job; the store
// records whatever it is given.
func InsertNotification(db *sql.DB, dedupKey, kind, message string) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO notifications (dedup_key, kind, message) VALUES (?, ?, ?)",
		dedupKey, kind, message,
	)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get notification id: %w", err)
	}

	_, err = db.Exec(`DELETE FROM notifications WHERE id NOT IN (
		SELECT id FROM notifications ORDER BY id DESC LIMIT ?
	)`, historyCap)
	if err != nil {
		return 0, fmt.Errorf("trim notifications: %w", err)
	}
	return id, nil
}

// ListNotifications returns up to limit notifications, newest first,
// skipping offset rows.
func ListNotifications(db *sql.DB, limit, offset int) ([]Notification, error) {
	rows, err := db.Query(
		"SELECT id, dedup_key, kind, message, created_at, read FROM notifications ORDER BY id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.DedupKey, &n.Kind, &n.Message, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// RecentDedupKeys returns the dedup keys of the n newest notifications,
// used to seed in-memory dedup after a restart.
func RecentDedupKeys(db *sql.DB, n int) ([]string, error) {
	rows, err := db.Query(
		"SELECT dedup_key FROM notifications WHERE dedup_key != '' ORDER BY id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("query dedup keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan dedup key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UnreadCount returns how many notifications are unread.
func UnreadCount(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM notifications WHERE read = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkAllRead clears the unread flag on every notification.
func MarkAllRead(db *sql.DB) error {
	if _, err := db.Exec("UPDATE notifications SET read = 1 WHERE read = 0"); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// ClearNotifications deletes the entire history.
func ClearNotifications(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
