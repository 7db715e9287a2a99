package chess

import "fmt"

// Board maps each square to an optional piece. It performs no validation;
// legality is decided by the rules engine before Move is called.
type Board struct {
	squares [64]Piece
}

// Get returns the piece on sq and whether one is present.
func (b *Board) Get(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	p := b.squares[sq]
	return p, !p.Empty()
}

// Place puts p on sq, replacing any occupant.
func (b *Board) Place(sq Square, p Piece) {
	if sq.Valid() {
		b.squares[sq] = p
	}
}

// Remove empties sq.
func (b *Board) Remove(sq Square) {
	if sq.Valid() {
		b.squares[sq] = Piece{}
	}
}

// Move relocates the piece on from to to unconditionally.
func (b *Board) Move(from, to Square) {
	if !from.Valid() || !to.Valid() || from == to {
		return
	}
	b.squares[to] = b.squares[from]
	b.squares[from] = Piece{}
}

// KingSquare returns the square of c's king, or NoSquare.
func (b *Board) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := Square(0); sq < 64; sq++ {
		if b.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Validate checks that each color has exactly one king.
func (b *Board) Validate() error {
	var kings [2]int
	for _, p := range b.squares {
		if p.Type == King {
			kings[p.Color]++
		}
	}
	for c := White; c <= Black; c++ {
		if kings[c] != 1 {
			return fmt.Errorf("board has %d %s kings", kings[c], c)
		}
	}
	return nil
}

// placement returns the FEN piece placement field.
func (b *Board) placement() string {
	buf := make([]byte, 0, 72)
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.squares[NewSquare(row, col)]
			if p.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				buf = append(buf, byte('0'+empty))
				empty = 0
			}
			buf = append(buf, p.String()[0])
		}
		if empty > 0 {
			buf = append(buf, byte('0'+empty))
		}
		if row > 0 {
			buf = append(buf, '/')
		}
	}
	return string(buf)
}
