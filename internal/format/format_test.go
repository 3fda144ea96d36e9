package format

import "testing"

func TestDuration(t *testing.T) {
	tests := []struct {
		sec  int64
		want string
	}{
		{0, "0s"},
		{42, "42s"},
		{59, "59s"},
		{60, "1 min"},
		{120, "2 min"},
		{3599, "59 min"},
		{3600, "1 h"},
		{86399, "23 h"},
		{86400, "1 d"},
		{200000, "2 d"},
	}
	for _, tt := range tests {
		if got := Duration(tt.sec); got != tt.want {
			t.Errorf("Duration(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestDurationAgo(t *testing.T) {
	if got := DurationAgo(nil); got != "-" {
		t.Errorf("DurationAgo(nil) = %q, want placeholder", got)
	}
	sec := int64(120)
	if got := DurationAgo(&sec); got != "2 min ago" {
		t.Errorf("DurationAgo(120) = %q", got)
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "-"},
		{-5, "-"},
		{512, "512 B"},
		{2048, "2 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := Bytes(tt.n); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTs(t *testing.T) {
	if got := Ts(""); got != "" {
		t.Errorf("Ts(\"\") = %q", got)
	}
	if got := Ts("not a time"); got != "not a time" {
		t.Errorf("unparseable input should pass through, got %q", got)
	}
	got := Ts("2024-03-01 09:15:30")
	if got != "2024-03-01 | 09:15:30" {
		t.Errorf("Ts = %q", got)
	}
}

func TestTimeOnly(t *testing.T) {
	if got := TimeOnly("2024-03-01 09:15:30"); got != "09:15:30" {
		t.Errorf("TimeOnly = %q", got)
	}
}

func TestAlertType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"RESOLVED", "ENTER"},
		{"BACK_TO_AREA", "EXIT"},
		{"ENTER", "ENTER"},
		{"EXIT", "EXIT"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := AlertType(tt.in); got != tt.want {
			t.Errorf("AlertType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
