package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hartono/pantau/internal/api"
	"github.com/hartono/pantau/internal/store"
)

const defaultWorkHours = "08:30-17:30"

// SweepAbsent marks employees still absent shortly before work end as
// ABSENT for the day. It only acts inside the [end-offset, end] window
// and at most once per day, guarded through the local store so a
// restart inside the window cannot repeat it.
func (t *Tracker) SweepAbsent(ctx context.Context, st *api.ScheduleState, params *api.ConfigParams, now time.Time) (int64, error) {
	if params != nil && !params.MarkAbsentEnabled {
		return 0, nil
	}

	workHours := defaultWorkHours
	if st != nil && st.WorkHours != "" {
		workHours = st.WorkHours
	} else if params != nil && params.WorkHours != "" {
		workHours = params.WorkHours
	}
	endH, endM, err := parseRangeEnd(workHours)
	if err != nil {
		return 0, fmt.Errorf("work hours %q: %w", workHours, err)
	}

	offset := 5 * time.Minute
	if params != nil && params.MarkAbsentOffsetMinutes >= 0 {
		offset = time.Duration(params.MarkAbsentOffsetMinutes) * time.Minute
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), endH, endM, 0, 0, now.Location())
	if now.Before(end.Add(-offset)) || now.After(end) {
		return 0, nil
	}

	day := now.Format("2006-01-02")
	done, err := store.HasDailyGuard(t.db, "mark_absent", day)
	if err != nil {
		return 0, fmt.Errorf("check mark-absent guard: %w", err)
	}
	if done {
		return 0, nil
	}

	t.mu.Lock()
	haveSnap := t.last != nil
	var ids []int64
	if haveSnap {
		for _, emp := range t.last.Employees {
			if emp.Active() && !emp.IsPresent {
				ids = append(ids, emp.EmployeeID)
			}
		}
	}
	t.mu.Unlock()

	// No snapshot yet: leave the guard unclaimed so the next poll
	// inside the window retries.
	if !haveSnap {
		return 0, nil
	}

	var marked int64
	if len(ids) > 0 {
		marked, err = t.client.MarkAbsent(ctx, ids)
		if err != nil {
			return 0, fmt.Errorf("mark absent: %w", err)
		}
	}

	// Only a completed sweep burns the day; a failed POST above must
	// stay retryable.
	if _, err := store.ClaimDailyGuard(t.db, "mark_absent", day); err != nil {
		return marked, fmt.Errorf("claim mark-absent guard: %w", err)
	}
	return marked, nil
}

// parseRangeEnd extracts the end of a "HH:MM-HH:MM" range.
func parseRangeEnd(r string) (hour, minute int, err error) {
	parts := strings.Split(r, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("not a range")
	}
	hm := strings.Split(strings.TrimSpace(parts[1]), ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("bad end time")
	}
	hour, err = strconv.Atoi(hm[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad end hour")
	}
	minute, err = strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad end minute")
	}
	return hour, minute, nil
}
