package store

import (
	"database/sql"
	"fmt"
)

// GetPref reads a preference value. Missing keys return the default
// without error.
func GetPref(db *sql.DB, key, defaultVal string) (string, error) {
	var v string
	err := db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return defaultVal, nil
	}
	if err != nil {
		return "", fmt.Errorf("get pref %q: %w", key, err)
	}
	return v, nil
}

// SetPref writes a preference value, replacing any previous one.
func SetPref(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set pref %q: %w", key, err)
	}
	return nil
}

// HasDailyGuard reports whether task already ran on day (YYYY-MM-DD)
// without claiming the guard, so a failed run can be retried.
func HasDailyGuard(db *sql.DB, task, day string) (bool, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM daily_guards WHERE task = ? AND day = ?",
		task, day,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check guard %s/%s: %w", task, day, err)
	}
	return n > 0, nil
}

// ClaimDailyGuard records that task ran on day (YYYY-MM-DD) and
// reports whether this call was the first claim. Subsequent claims for
// the same task and day return false, which keeps once-per-day actions
// from repeating across restarts.
func ClaimDailyGuard(db *sql.DB, task, day string) (bool, error) {
	res, err := db.Exec(
		"INSERT OR IGNORE INTO daily_guards (task, day) VALUES (?, ?)",
		task, day,
	)
	if err != nil {
		return false, fmt.Errorf("claim guard %s/%s: %w", task, day, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check guard claim: %w", err)
	}
	return n > 0, nil
}
