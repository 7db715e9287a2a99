// Package chess holds the board state and the move rules engine.
//
// The package is synchronous and does no locking: a GameState must be owned
// by a single caller at a time.
package chess

import (
	"fmt"
	"strings"
)

// Square identifies a board position as row*8+column.
// Row 0 is White's back rank (rank 1), column 0 is the a-file.
type Square int8

// NoSquare marks an absent square, e.g. no en passant target.
const NoSquare Square = -1

// NewSquare returns the square at (row, col) or NoSquare when out of range.
func NewSquare(row, col int) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	return Square(row*8 + col)
}

func (s Square) Row() int { return int(s) >> 3 }
func (s Square) Col() int { return int(s) & 7 }

// Valid reports whether s is one of the 64 board squares.
func (s Square) Valid() bool { return s >= 0 && s < 64 }

// String returns algebraic notation ("e4"), or "-" for NoSquare.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.Col()), byte('1' + s.Row())})
}

// Offset returns the square dr rows and dc columns away.
func (s Square) Offset(dr, dc int) (Square, bool) {
	to := NewSquare(s.Row()+dr, s.Col()+dc)
	return to, to != NoSquare
}

// ParseSquare parses algebraic notation such as "e4" (case-insensitive).
func ParseSquare(text string) (Square, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	if len(t) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q", ErrMalformedMove, text)
	}
	sq := NewSquare(int(t[1])-'1', int(t[0])-'a')
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("%w: square %q", ErrMalformedMove, text)
	}
	return sq, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
