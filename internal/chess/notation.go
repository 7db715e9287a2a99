package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN builds a game state from Forsyth-Edwards Notation. The move
// counters may be omitted and default to "0 1".
func ParseFEN(fen string) (*GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) != 4 && len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 4 or 6 fields, got %d", ErrMalformedFEN, len(fields))
	}
	st := &GameState{EnPassant: NoSquare, FullMoveNumber: 1}

	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: want 8 rows, got %d", ErrMalformedFEN, len(rows))
	}
	for i, rowText := range rows {
		row, col := 7-i, 0
		for j := 0; j < len(rowText); j++ {
			ch := rowText[j]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok || col > 7 {
				return nil, fmt.Errorf("%w: bad row %q", ErrMalformedFEN, rowText)
			}
			st.Board.Place(NewSquare(row, col), p)
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("%w: row %q covers %d columns", ErrMalformedFEN, rowText, col)
		}
	}
	if err := st.Board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFEN, err)
	}

	switch fields[1] {
	case "w":
		st.Turn = White
	case "b":
		st.Turn = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrMalformedFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			i := strings.IndexRune("KQkq", ch)
			if i < 0 {
				return nil, fmt.Errorf("%w: castling %q", ErrMalformedFEN, fields[2])
			}
			st.Castling |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil || !enPassantTarget(&st.Board, sq, st.Turn) {
			return nil, fmt.Errorf("%w: en passant %q", ErrMalformedFEN, fields[3])
		}
		st.EnPassant = sq
	}

	if len(fields) == 6 {
		half, err := strconv.Atoi(fields[4])
		if err != nil || half < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrMalformedFEN, fields[4])
		}
		full, err := strconv.Atoi(fields[5])
		if err != nil || full < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrMalformedFEN, fields[5])
		}
		st.HalfMoveClock, st.FullMoveNumber = half, full
	}

	if kingAttacked(&st.Board, st.Turn.Other()) {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrMalformedFEN)
	}
	st.refresh(true)
	return st, nil
}

// FEN encodes the state in Forsyth-Edwards Notation.
func (st *GameState) FEN() string {
	return fmt.Sprintf("%s %s %s %s %d %d",
		st.Board.placement(), st.Turn.fenLetter(), st.Castling, st.EnPassant,
		st.HalfMoveClock, st.FullMoveNumber)
}

// SAN returns standard algebraic notation for a legal move m in st, with
// a "+" or "#" suffix. It does not modify st.
func SAN(st *GameState, m Move) string {
	p, _ := st.Board.Get(m.From)
	var b strings.Builder

	switch {
	case p.Type == King && m.To.Col()-m.From.Col() == 2:
		b.WriteString("O-O")
	case p.Type == King && m.From.Col()-m.To.Col() == 2:
		b.WriteString("O-O-O")
	case p.Type == Pawn:
		if m.From.Col() != m.To.Col() {
			b.WriteByte(byte('a' + m.From.Col()))
			b.WriteByte('x')
		}
		b.WriteString(m.To.String())
		if m.Promotion != NoPieceType {
			b.WriteByte('=')
			b.WriteString(NewPiece(m.Promotion, White).String())
		}
	default:
		b.WriteString(NewPiece(p.Type, White).String())
		b.WriteString(disambiguation(st, p, m))
		if _, occupied := st.Board.Get(m.To); occupied {
			b.WriteByte('x')
		}
		b.WriteString(m.To.String())
	}

	after := st.Clone()
	after.apply(m)
	switch {
	case after.status == StatusCheckmate:
		b.WriteByte('#')
	case after.check:
		b.WriteByte('+')
	}
	return b.String()
}

// disambiguation returns the file, rank or both needed to tell m apart from
// other legal moves of the same piece type to the same square.
func disambiguation(st *GameState, p Piece, m Move) string {
	var rivals []Square
	for _, other := range st.allLegal() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if q, _ := st.Board.Get(other.From); q.Type == p.Type {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameCol, sameRow := false, false
	for _, sq := range rivals {
		sameCol = sameCol || sq.Col() == m.From.Col()
		sameRow = sameRow || sq.Row() == m.From.Row()
	}
	switch {
	case !sameCol:
		return m.From.String()[:1]
	case !sameRow:
		return m.From.String()[1:]
	}
	return m.From.String()
}
