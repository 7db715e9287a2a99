package util

import (
	"strconv"
	"strings"
	"time"
)

// FormatShortTime formats t in local time, "-" for the zero time.
func FormatShortTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(layout)
}

// MoveList numbers SAN moves in pairs ("1. e4 e5 2. Nf3"). When blackFirst
// the list opens with "N..." where N is firstNumber.
func MoveList(moves []string, firstNumber int, blackFirst bool) string {
	if len(moves) == 0 {
		return ""
	}
	if firstNumber < 1 {
		firstNumber = 1
	}
	var b strings.Builder
	n := firstNumber
	for i, san := range moves {
		white := (i%2 == 0) != blackFirst
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch {
		case i == 0 && blackFirst:
			b.WriteString(strconv.Itoa(n) + "... ")
		case white:
			b.WriteString(strconv.Itoa(n) + ". ")
		}
		b.WriteString(san)
		if !white {
			n++
		}
	}
	return b.String()
}
