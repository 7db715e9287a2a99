package chess

import (
	"fmt"
	"strings"
)

// Move is a request to move the piece on From to To. Promotion names the
// piece a pawn becomes on the last row and is NoPieceType otherwise.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String returns coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(m.Promotion.letter())
	}
	return s
}

// ParseMove parses coordinate notation. "e2e4", "E2-E4" and "e7e8q" are
// accepted.
func ParseMove(text string) (Move, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, "-", "")
	if len(t) != 4 && len(t) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedMove, text)
	}
	from, err := ParseSquare(t[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(t[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(t) == 5 {
		p, ok := pieceFromLetter(t[4])
		if !ok {
			return Move{}, fmt.Errorf("%w: promotion %q", ErrMalformedMove, t[4:])
		}
		m.Promotion = p.Type
	}
	return m, nil
}

// pseudoLegal appends the moves of the piece on from that satisfy movement
// geometry, ignoring whether the mover's king is left in check.
func (st *GameState) pseudoLegal(from Square, out []Move) []Move {
	p, ok := st.Board.Get(from)
	if !ok {
		return out
	}
	switch p.Type {
	case Pawn:
		return st.pawnMoves(from, p.Color, out)
	case King:
		out = st.stepMoves(from, p, out)
		return st.castlingMoves(from, p.Color, out)
	}
	return st.stepMoves(from, p, out)
}

func (st *GameState) stepMoves(from Square, p Piece, out []Move) []Move {
	pat := patterns[p.Type]
	for _, o := range pat.offsets {
		cur := from
		for {
			next, ok := cur.Offset(o.dr, o.dc)
			if !ok {
				break
			}
			cur = next
			occ, occupied := st.Board.Get(cur)
			if occupied && occ.Color == p.Color {
				break
			}
			out = append(out, Move{From: from, To: cur})
			if occupied || !pat.slides {
				break
			}
		}
	}
	return out
}

func (st *GameState) pawnMoves(from Square, c Color, out []Move) []Move {
	dir := c.pawnDir()
	lastRow := c.Other().homeRow()
	add := func(to Square) {
		if to.Row() == lastRow {
			for _, pt := range PromotionChoices {
				out = append(out, Move{From: from, To: to, Promotion: pt})
			}
			return
		}
		out = append(out, Move{From: from, To: to})
	}

	if one, ok := from.Offset(dir, 0); ok {
		if _, occupied := st.Board.Get(one); !occupied {
			add(one)
			if from.Row() == c.homeRow()+dir {
				if two, ok := one.Offset(dir, 0); ok {
					if _, occupied := st.Board.Get(two); !occupied {
						add(two)
					}
				}
			}
		}
	}
	for _, dc := range [2]int{-1, 1} {
		to, ok := from.Offset(dir, dc)
		if !ok {
			continue
		}
		if occ, occupied := st.Board.Get(to); occupied && occ.Color != c {
			add(to)
		} else if _, ok := enPassantVictim(&st.Board, NewPiece(Pawn, c), Move{From: from, To: to}, st.EnPassant); ok {
			add(to)
		}
	}
	return out
}

// castlingMoves adds the king's two-column step when the right is held,
// the squares between king and rook are empty and the king neither starts
// in nor passes through check. The destination is checked by the legality
// filter like any other king move.
func (st *GameState) castlingMoves(from Square, c Color, out []Move) []Move {
	for _, kingSide := range [2]bool{true, false} {
		if st.castlingBlocker(from, c, kingSide) == "" {
			dc := -2
			if kingSide {
				dc = 2
			}
			to, _ := from.Offset(0, dc)
			out = append(out, Move{From: from, To: to})
		}
	}
	return out
}

// castlingBlocker returns why c cannot castle on a wing, or "" if it can
// (apart from the destination square being attacked).
func (st *GameState) castlingBlocker(from Square, c Color, kingSide bool) Reason {
	row := c.homeRow()
	if from != NewSquare(row, 4) || !st.Castling.Has(castlingRight(c, kingSide)) {
		return ReasonCastlingUnavailable
	}
	rookCol, dir := 0, -1
	if kingSide {
		rookCol, dir = 7, 1
	}
	if p, _ := st.Board.Get(NewSquare(row, rookCol)); p != NewPiece(Rook, c) {
		return ReasonCastlingUnavailable
	}
	for col := 4 + dir; col != rookCol; col += dir {
		if _, occupied := st.Board.Get(NewSquare(row, col)); occupied {
			return ReasonBlockedPath
		}
	}
	if attacked(&st.Board, from, c.Other()) || attacked(&st.Board, NewSquare(row, 4+dir), c.Other()) {
		return ReasonCastlingThroughCheck
	}
	return ""
}

// leavesKingSafe simulates m on a copy of the board and reports whether the
// mover's king is not attacked afterwards.
func (st *GameState) leavesKingSafe(m Move) bool {
	b := st.Board
	p, _ := b.Get(m.From)
	placeMove(&b, p, m, st.EnPassant)
	return !kingAttacked(&b, p.Color)
}

// placeMove performs the board side of m, including the rook of a castle
// and the pawn taken en passant. It returns the captured piece.
func placeMove(b *Board, p Piece, m Move, ep Square) Piece {
	captured, _ := b.Get(m.To)
	victim, enPassant := enPassantVictim(b, p, m, ep)
	switch {
	case enPassant:
		captured, _ = b.Get(victim)
		b.Remove(victim)
	case p.Type == King && abs(m.To.Col()-m.From.Col()) == 2:
		row := m.From.Row()
		if m.To.Col() == 6 {
			b.Move(NewSquare(row, 7), NewSquare(row, 5))
		} else {
			b.Move(NewSquare(row, 0), NewSquare(row, 3))
		}
	}
	b.Move(m.From, m.To)
	if m.Promotion != NoPieceType {
		b.Place(m.To, NewPiece(m.Promotion, p.Color))
	}
	return captured
}

// enPassantVictim returns the square of the pawn m captures en passant, if
// m is such a capture: a diagonal pawn step onto the empty target ep beside
// an enemy pawn.
func enPassantVictim(b *Board, p Piece, m Move, ep Square) (Square, bool) {
	if p.Type != Pawn || m.To != ep || m.From.Col() == m.To.Col() {
		return NoSquare, false
	}
	if _, occupied := b.Get(m.To); occupied {
		return NoSquare, false
	}
	victim := NewSquare(m.From.Row(), m.To.Col())
	if v, _ := b.Get(victim); v != NewPiece(Pawn, p.Color.Other()) {
		return NoSquare, false
	}
	return victim, true
}

// legalFrom returns the legal moves of the piece on from, including every
// promotion variant.
func (st *GameState) legalFrom(from Square, out []Move) []Move {
	p, ok := st.Board.Get(from)
	if !ok || p.Color != st.Turn {
		return out
	}
	start := len(out)
	out = st.pseudoLegal(from, out)
	kept := out[:start]
	for _, m := range out[start:] {
		if st.leavesKingSafe(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// AllLegalMoves returns every legal move of the side to move.
func AllLegalMoves(st *GameState) []Move {
	if st.status.Terminal() {
		return nil
	}
	return st.allLegal()
}

func (st *GameState) allLegal() []Move {
	out := make([]Move, 0, 48)
	for sq := Square(0); sq < 64; sq++ {
		out = st.legalFrom(sq, out)
	}
	return out
}

func (st *GameState) hasLegalMove() bool {
	buf := make([]Move, 0, 32)
	for sq := Square(0); sq < 64; sq++ {
		if buf = st.legalFrom(sq, buf[:0]); len(buf) > 0 {
			return true
		}
	}
	return false
}
