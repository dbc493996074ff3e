package handlers

import "testing"

func TestParseDueDate(t *testing.T) {
	if _, err := parseDueDate("2026-03-01"); err != nil {
		t.Errorf("date-only format rejected: %v", err)
	}
	if _, err := parseDueDate("2026-03-01 14:30:00"); err != nil {
		t.Errorf("date-time format rejected: %v", err)
	}
	for _, bad := range []string{"", "01-03-2026", "2026/03/01", "tomorrow"} {
		if _, err := parseDueDate(bad); err == nil {
			t.Errorf("parseDueDate(%q) accepted, want error", bad)
		}
	}

	got, err := parseDueDate("2026-03-01 14:30:00")
	if err != nil {
		t.Fatal(err)
	}
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("parsed time = %v, want 14:30", got)
	}
}
