package chess

// CastlingRights is a bit set of the castling options still available.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// castlingRight returns the right for color c on the given wing.
func castlingRight(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSide
	case c == White:
		return WhiteQueenSide
	case kingSide:
		return BlackKingSide
	}
	return BlackQueenSide
}

// Has reports whether all rights in r are present.
func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r == r }

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			s += string(ch)
		}
	}
	return s
}

// Status is the game phase after the last accepted move.
type Status string

const (
	StatusOngoing              Status = "ongoing"
	StatusCheckmate            Status = "checkmate"
	StatusStalemate            Status = "stalemate"
	StatusFiftyMoveRule        Status = "fifty_move_rule"
	StatusThreefoldRepetition  Status = "threefold_repetition"
	StatusInsufficientMaterial Status = "insufficient_material"
)

// Terminal reports whether no further moves are accepted.
func (s Status) Terminal() bool { return s != StatusOngoing && s != "" }

// Draw reports whether s ends the game without a winner.
func (s Status) Draw() bool { return s.Terminal() && s != StatusCheckmate }

// GameState is the canonical state of one game.
type GameState struct {
	Board          Board
	Turn           Color
	Castling       CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int

	status      Status
	check       bool
	repetitions map[string]int
}

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGame returns the standard starting position with White to move.
func NewGame() *GameState {
	st := &GameState{
		Turn:           White,
		Castling:       AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for col, pt := range backRank {
		st.Board.Place(NewSquare(0, col), NewPiece(pt, White))
		st.Board.Place(NewSquare(1, col), NewPiece(Pawn, White))
		st.Board.Place(NewSquare(6, col), NewPiece(Pawn, Black))
		st.Board.Place(NewSquare(7, col), NewPiece(pt, Black))
	}
	st.refresh(true)
	return st
}

// Clone returns an independent deep copy.
func (st *GameState) Clone() *GameState {
	cp := *st
	cp.repetitions = make(map[string]int, len(st.repetitions))
	for k, v := range st.repetitions {
		cp.repetitions[k] = v
	}
	return &cp
}

// Status returns the current game phase.
func (st *GameState) Status() Status { return st.status }

// InCheck reports whether the side to move is in check.
func (st *GameState) InCheck() bool { return st.check }

// Winner returns the winning color after checkmate.
func (st *GameState) Winner() (Color, bool) {
	if st.status != StatusCheckmate {
		return White, false
	}
	return st.Turn.Other(), true
}

// Repetitions returns how many times the current position has occurred.
func (st *GameState) Repetitions() int { return st.repetitions[st.positionKey()] }

// refresh recomputes check and status. record adds the current position
// to the repetition history.
func (st *GameState) refresh(record bool) {
	if st.repetitions == nil {
		st.repetitions = make(map[string]int)
	}
	key := st.positionKey()
	if record {
		st.repetitions[key]++
	}
	st.check = kingAttacked(&st.Board, st.Turn)

	switch {
	case !st.hasLegalMove():
		if st.check {
			st.status = StatusCheckmate
		} else {
			st.status = StatusStalemate
		}
	case st.HalfMoveClock >= 100:
		st.status = StatusFiftyMoveRule
	case st.repetitions[key] >= 3:
		st.status = StatusThreefoldRepetition
	case insufficientMaterial(&st.Board):
		st.status = StatusInsufficientMaterial
	default:
		st.status = StatusOngoing
	}
}

// positionKey identifies a position for repetition: placement, side to
// move, castling rights and a capturable en passant target.
func (st *GameState) positionKey() string {
	ep := "-"
	if st.enPassantCapturable() {
		ep = st.EnPassant.String()
	}
	return st.Board.placement() + " " + st.Turn.fenLetter() + " " + st.Castling.String() + " " + ep
}

func (st *GameState) enPassantCapturable() bool {
	if !st.EnPassant.Valid() {
		return false
	}
	dir := st.Turn.pawnDir()
	for _, dc := range [2]int{-1, 1} {
		if from, ok := st.EnPassant.Offset(-dir, dc); ok {
			if p, _ := st.Board.Get(from); p == NewPiece(Pawn, st.Turn) {
				return true
			}
		}
	}
	return false
}

// enPassantTarget reports whether sq can be the en passant target with c to
// move: the square an enemy pawn just crossed on its double step, with that
// pawn in place and both the crossed square and its start square empty.
func enPassantTarget(b *Board, sq Square, c Color) bool {
	pushed := c.Other()
	if sq.Row() != pushed.homeRow()+2*pushed.pawnDir() {
		return false
	}
	start, _ := sq.Offset(-pushed.pawnDir(), 0)
	landed, _ := sq.Offset(pushed.pawnDir(), 0)
	if _, occupied := b.Get(sq); occupied {
		return false
	}
	if _, occupied := b.Get(start); occupied {
		return false
	}
	p, _ := b.Get(landed)
	return p == NewPiece(Pawn, pushed)
}

func kingAttacked(b *Board, c Color) bool {
	k := b.KingSquare(c)
	return k != NoSquare && attacked(b, k, c.Other())
}

// insufficientMaterial covers K v K, K+minor v K and K+B v K+B with both
// bishops on the same square color.
func insufficientMaterial(b *Board) bool {
	var minors []Square
	for sq := Square(0); sq < 64; sq++ {
		p, ok := b.Get(sq)
		if !ok || p.Type == King {
			continue
		}
		if p.Type != Knight && p.Type != Bishop {
			return false
		}
		minors = append(minors, sq)
	}
	switch len(minors) {
	case 0, 1:
		return true
	case 2:
		a, _ := b.Get(minors[0])
		c, _ := b.Get(minors[1])
		if a.Type != Bishop || c.Type != Bishop || a.Color == c.Color {
			return false
		}
		return (minors[0].Row()+minors[0].Col())%2 == (minors[1].Row()+minors[1].Col())%2
	}
	return false
}

func (c Color) fenLetter() string {
	if c == White {
		return "w"
	}
	return "b"
}
