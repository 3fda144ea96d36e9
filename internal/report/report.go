// Package report holds the attendance and alert table controllers:
// client-side sorting over typed rows, fixed-size pages, and debounced
// filter reloads. Sorting always reads the decoded row fields, never
// rendered cell text.
package report

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// Value is a sortable cell. Null cells order after everything else in
// both directions.
type Value struct {
	null    bool
	numeric bool
	num     float64
	str     string
}

func Null() Value         { return Value{null: true} }
func Num(f float64) Value { return Value{numeric: true, num: f} }
func Str(s string) Value  { return Value{str: strings.ToLower(s)} }

// TsValue sorts a nullable timestamp string chronologically, falling
// back to string order when it does not parse.
func TsValue(ts *string) Value {
	if ts == nil || *ts == "" {
		return Null()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, *ts); err == nil {
			return Num(float64(t.UnixMilli()))
		}
	}
	return Str(*ts)
}

// compare orders a against b; nulls sort last regardless of direction,
// so the caller only negates for non-null pairs.
func compare(a, b Value) int {
	switch {
	case a.null && b.null:
		return 0
	case a.null:
		return 1
	case b.null:
		return -1
	}
	if a.numeric && b.numeric {
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return strings.Compare(sortString(a), sortString(b))
}

func sortString(v Value) string {
	if v.numeric {
		return ""
	}
	return v.str
}

// Table is a sortable, paginated view over typed rows. The value
// function extracts the sort cell for a column key; descFirst lists
// the columns whose first click sorts descending (dates and counts).
type Table[T any] struct {
	mu        sync.Mutex
	rows      []T
	sortKey   string
	dir       Dir
	page      int
	pageSize  int
	value     func(row T, key string) Value
	descFirst map[string]bool
}

// NewTable builds a controller with an initial sort.
func NewTable[T any](pageSize int, sortKey string, dir Dir, descFirst []string, value func(T, string) Value) *Table[T] {
	df := make(map[string]bool, len(descFirst))
	for _, k := range descFirst {
		df[k] = true
	}
	return &Table[T]{
		pageSize:  pageSize,
		sortKey:   sortKey,
		dir:       dir,
		value:     value,
		descFirst: df,
	}
}

// SetRows replaces the data. The page resets so a background refresh
// cannot leave the view beyond the last page.
func (t *Table[T]) SetRows(rows []T) {
	t.mu.Lock()
	t.rows = rows
	t.page = 0
	t.mu.Unlock()
}

// ToggleSort sorts by key: clicking the current column flips the
// direction, a new column starts at its default. The page resets.
func (t *Table[T]) ToggleSort(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sortKey == key {
		if t.dir == Asc {
			t.dir = Desc
		} else {
			t.dir = Asc
		}
	} else {
		t.sortKey = key
		t.dir = Asc
		if t.descFirst[key] {
			t.dir = Desc
		}
	}
	t.page = 0
}

// Sort returns the current sort key and direction.
func (t *Table[T]) Sort() (string, Dir) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortKey, t.dir
}

// Sorted returns all rows in the current order.
func (t *Table[T]) Sorted() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sortedLocked()
}

func (t *Table[T]) sortedLocked() []T {
	out := append([]T(nil), t.rows...)
	key, dir := t.sortKey, t.dir
	sort.SliceStable(out, func(i, j int) bool {
		vi := t.value(out[i], key)
		vj := t.value(out[j], key)
		c := compare(vi, vj)
		if vi.null || vj.null {
			return c < 0
		}
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// PageInfo describes the visible window.
type PageInfo struct {
	Page       int // zero-based
	TotalPages int
	TotalRows  int
}

// Page returns the rows of the current page and its position. An
// out-of-range page clamps to the last one.
func (t *Table[T]) Page() ([]T, PageInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sorted := t.sortedLocked()
	total := (len(sorted) + t.pageSize - 1) / t.pageSize
	if total < 1 {
		total = 1
	}
	if t.page >= total {
		t.page = total - 1
	}
	start := t.page * t.pageSize
	end := start + t.pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], PageInfo{Page: t.page, TotalPages: total, TotalRows: len(sorted)}
}

// Next advances one page if one exists.
func (t *Table[T]) Next() {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := (len(t.rows) + t.pageSize - 1) / t.pageSize
	if t.page < total-1 {
		t.page++
	}
}

// Prev goes back one page if possible.
func (t *Table[T]) Prev() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.page > 0 {
		t.page--
	}
}
