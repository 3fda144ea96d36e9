package store

import (
	"database/sql"
	"fmt"
)

// PresenceState is the last known present/absent flag per employee.
// Keeping it in the database lets the tracker diff against real prior
// state after a restart instead of treating everyone as newly seen.
type PresenceState struct {
	EmployeeID int64
	Name       string
	IsPresent  bool
}

// LoadPresence returns the cached presence state keyed by employee id.
func LoadPresence(db *sql.DB) (map[int64]PresenceState, error) {
	rows, err := db.Query("SELECT employee_id, name, is_present FROM presence_cache")
	if err != nil {
		return nil, fmt.Errorf("query presence cache: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]PresenceState)
	for rows.Next() {
		var p PresenceState
		if err := rows.Scan(&p.EmployeeID, &p.Name, &p.IsPresent); err != nil {
			return nil, fmt.Errorf("scan presence: %w", err)
		}
		out[p.EmployeeID] = p
	}
	return out, rows.Err()
}

// SavePresence replaces the cache with the given state in one
// transaction. Employees absent from the map are removed so deleted
// employees do not linger.
func SavePresence(db *sql.DB, states map[int64]PresenceState) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM presence_cache"); err != nil {
		return fmt.Errorf("clear presence cache: %w", err)
	}
	for _, p := range states {
		_, err := tx.Exec(
			"INSERT INTO presence_cache (employee_id, name, is_present) VALUES (?, ?, ?)",
			p.EmployeeID, p.Name, p.IsPresent,
		)
		if err != nil {
			return fmt.Errorf("insert presence %d: %w", p.EmployeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
