package tui

import (
	"testing"

	"github.com/hartono/pantau/internal/api"
)

func subject(name, dept string, present bool) api.TrackedSubject {
	return api.TrackedSubject{Name: name, Department: dept, IsPresent: present}
}

func names(emps []api.TrackedSubject) []string {
	out := make([]string, len(emps))
	for i, e := range emps {
		out[i] = e.Name
	}
	return out
}

func TestSortedEmployees(t *testing.T) {
	emps := []api.TrackedSubject{
		subject("Citra", "Ops", false),
		subject("Budi", "HR", true),
		subject("Agus", "Ops", true),
	}

	tests := []struct {
		mode string
		want []string
	}{
		{"", []string{"Citra", "Budi", "Agus"}},
		{"name", []string{"Agus", "Budi", "Citra"}},
		{"status", []string{"Agus", "Budi", "Citra"}},
		{"department", []string{"Budi", "Agus", "Citra"}},
	}
	for _, tt := range tests {
		got := names(sortedEmployees(emps, tt.mode))
		for i, want := range tt.want {
			if got[i] != want {
				t.Errorf("mode %q: order = %v, want %v", tt.mode, got, tt.want)
				break
			}
		}
	}

	// The backend-ordered input must not be reordered in place.
	if emps[0].Name != "Citra" {
		t.Error("input slice mutated")
	}
}
