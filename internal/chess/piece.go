package chess

// Color is a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// pawnDir is the row step of a pawn push.
func (c Color) pawnDir() int {
	if c == White {
		return 1
	}
	return -1
}

// homeRow is the back rank row of c.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

// PieceType is the kind of a piece. The zero value means "no piece".
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// letter is the lowercase FEN letter, 0 for NoPieceType.
func (pt PieceType) letter() byte {
	return " pnbrqk"[pt]
}

// PromotionChoices lists the piece types a pawn may promote to.
var PromotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

func isPromotionChoice(pt PieceType) bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

// Piece is a tagged variant of type and color. Pieces are values and never
// change once placed; captures replace or remove them.
type Piece struct {
	Type  PieceType
	Color Color
}

// NewPiece builds a piece.
func NewPiece(pt PieceType, c Color) Piece { return Piece{Type: pt, Color: c} }

// Empty reports whether p is the zero Piece.
func (p Piece) Empty() bool { return p.Type == NoPieceType }

// String returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) String() string {
	if p.Empty() {
		return " "
	}
	b := p.Type.letter()
	if p.Color == White {
		b -= 'a' - 'A'
	}
	return string(b)
}

func pieceFromLetter(b byte) (Piece, bool) {
	c := White
	if b >= 'a' && b <= 'z' {
		c = Black
	} else {
		b += 'a' - 'A'
	}
	for pt := Pawn; pt <= King; pt++ {
		if pt.letter() == b {
			return NewPiece(pt, c), true
		}
	}
	return Piece{}, false
}
