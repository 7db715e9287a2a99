package chess

import "sort"

// Result describes an accepted move.
type Result struct {
	Move      Move
	SAN       string
	Piece     Piece
	Captured  Piece
	Castle    bool
	EnPassant bool
	Check     bool
	Status    Status
}

// IsLegal reports whether the piece on from may move to to. A pawn
// reaching the last row counts as legal; the promotion choice is asked for
// when the move is submitted.
func IsLegal(st *GameState, from, to Square) bool {
	m := Move{From: from, To: to}
	if needsPromotion(st, m) {
		m.Promotion = Queen
	}
	return Validate(st, m) == nil
}

// LegalMoves returns the sorted set of destinations for the piece on sq.
// It is empty when sq is empty, holds a piece of the side not to move, or
// the game is over.
func LegalMoves(st *GameState, sq Square) []Square {
	if st.status.Terminal() || !sq.Valid() {
		return nil
	}
	moves := st.legalFrom(sq, nil)
	seen := make(map[Square]struct{}, len(moves))
	out := make([]Square, 0, len(moves))
	for _, m := range moves {
		if _, dup := seen[m.To]; dup {
			continue
		}
		seen[m.To] = struct{}{}
		out = append(out, m.To)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks m against st without changing it. It returns nil for a
// legal move and a *Rejection otherwise.
func Validate(st *GameState, m Move) error {
	if !m.From.Valid() || !m.To.Valid() {
		return reject(ReasonMalformedInput, m)
	}
	if st.status.Terminal() {
		return reject(ReasonGameOver, m)
	}
	p, ok := st.Board.Get(m.From)
	if !ok {
		return reject(ReasonNoPiece, m)
	}
	if p.Color != st.Turn {
		return reject(ReasonNotYourTurn, m)
	}
	if m.From == m.To {
		return reject(ReasonSameSquare, m)
	}
	if occ, occupied := st.Board.Get(m.To); occupied && occ.Color == p.Color {
		return reject(ReasonOccupiedByOwn, m)
	}

	geometry := Move{From: m.From, To: m.To}
	if needsPromotion(st, geometry) {
		geometry.Promotion = Queen
	}
	if !containsMove(st.pseudoLegal(m.From, nil), geometry) {
		return reject(st.diagnose(p, m), m)
	}

	switch {
	case geometry.Promotion != NoPieceType && m.Promotion == NoPieceType:
		return reject(ReasonPromotionRequired, m)
	case geometry.Promotion == NoPieceType && m.Promotion != NoPieceType:
		return reject(ReasonInvalidPromotion, m)
	case m.Promotion != NoPieceType && !isPromotionChoice(m.Promotion):
		return reject(ReasonInvalidPromotion, m)
	}

	if !st.leavesKingSafe(m) {
		return reject(ReasonKingExposed, m)
	}
	return nil
}

// Submit validates m and, when legal, applies it to st. A rejected move
// leaves st untouched.
func Submit(st *GameState, m Move) (Result, error) {
	if err := Validate(st, m); err != nil {
		return Result{}, err
	}
	san := SAN(st, m)
	res := st.apply(m)
	res.SAN = san
	return res, nil
}

// Apply is Submit without notation: Result.SAN stays empty. Replaying
// stored moves uses it.
func Apply(st *GameState, m Move) (Result, error) {
	if err := Validate(st, m); err != nil {
		return Result{}, err
	}
	return st.apply(m), nil
}

func needsPromotion(st *GameState, m Move) bool {
	p, ok := st.Board.Get(m.From)
	return ok && p.Type == Pawn && m.To.Valid() && m.To.Row() == p.Color.Other().homeRow()
}

func containsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}

// diagnose explains why m is not pseudo-legal for p.
func (st *GameState) diagnose(p Piece, m Move) Reason {
	dr, dc := m.To.Row()-m.From.Row(), m.To.Col()-m.From.Col()
	switch p.Type {
	case Pawn:
		return st.diagnosePawn(p.Color, m, dr, dc)
	case King:
		if dr == 0 && abs(dc) == 2 {
			if r := st.castlingBlocker(m.From, p.Color, dc > 0); r != "" {
				return r
			}
		}
		return ReasonIllegalPattern
	}
	if reaches(p.Type, m.From, m.To) {
		return ReasonBlockedPath
	}
	return ReasonIllegalPattern
}

func (st *GameState) diagnosePawn(c Color, m Move, dr, dc int) Reason {
	dir := c.pawnDir()
	switch {
	case dc == 0 && dr == dir:
		return ReasonBlockedPath
	case dc == 0 && dr == 2*dir && m.From.Row() == c.homeRow()+dir:
		return ReasonBlockedPath
	}
	return ReasonIllegalPattern
}

// apply performs a validated move and updates turn, castling rights, en
// passant target, counters, repetition history and status.
func (st *GameState) apply(m Move) Result {
	p, _ := st.Board.Get(m.From)
	res := Result{
		Move:   m,
		Piece:  p,
		Castle: p.Type == King && abs(m.To.Col()-m.From.Col()) == 2,
	}
	_, res.EnPassant = enPassantVictim(&st.Board, p, m, st.EnPassant)
	res.Captured = placeMove(&st.Board, p, m, st.EnPassant)

	st.Castling &^= rightsTouching(m.From) | rightsTouching(m.To)

	st.EnPassant = NoSquare
	if p.Type == Pawn && abs(m.To.Row()-m.From.Row()) == 2 {
		st.EnPassant = NewSquare((m.From.Row()+m.To.Row())/2, m.From.Col())
	}

	if p.Type == Pawn || !res.Captured.Empty() {
		st.HalfMoveClock = 0
		// irreversible: earlier positions cannot recur
		st.repetitions = nil
	} else {
		st.HalfMoveClock++
	}
	if st.Turn == Black {
		st.FullMoveNumber++
	}
	st.Turn = st.Turn.Other()

	st.refresh(true)
	res.Check = st.check
	res.Status = st.status
	return res
}

// rightsTouching returns the castling rights lost when a piece leaves or
// arrives on sq.
func rightsTouching(sq Square) CastlingRights {
	switch sq {
	case NewSquare(0, 4):
		return WhiteKingSide | WhiteQueenSide
	case NewSquare(0, 7):
		return WhiteKingSide
	case NewSquare(0, 0):
		return WhiteQueenSide
	case NewSquare(7, 4):
		return BlackKingSide | BlackQueenSide
	case NewSquare(7, 7):
		return BlackKingSide
	case NewSquare(7, 0):
		return BlackQueenSide
	}
	return NoCastling
}
