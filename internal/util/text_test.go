package util

import (
	"testing"
	"time"
)

func TestMoveList(t *testing.T) {
	tests := []struct {
		name       string
		moves      []string
		first      int
		blackFirst bool
		want       string
	}{
		{"empty", nil, 1, false, ""},
		{"white first", []string{"e4", "e5", "Nf3"}, 1, false, "1. e4 e5 2. Nf3"},
		{"black first", []string{"Kd7", "e4", "Kc6"}, 7, true, "7... Kd7 8. e4 Kc6"},
		{"clamped number", []string{"d4"}, 0, false, "1. d4"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MoveList(tc.moves, tc.first, tc.blackFirst); got != tc.want {
				t.Fatalf("MoveList = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatShortTime(t *testing.T) {
	if got := FormatShortTime(time.Time{}, time.RFC3339); got != "-" {
		t.Fatalf("zero time = %q", got)
	}
	ts := time.Date(2026, 10, 17, 9, 30, 0, 0, time.Local)
	if got := FormatShortTime(ts, "2006-01-02 15:04"); got != "2026-10-17 09:30" {
		t.Fatalf("FormatShortTime = %q", got)
	}
}
