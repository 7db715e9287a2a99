package chess

type offset struct{ dr, dc int }

// pattern is the movement geometry of a piece type. Sliding pieces repeat
// each offset until blocked; the others step once.
type pattern struct {
	offsets []offset
	slides  bool
}

var (
	knightOffsets   = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	diagonalOffsets = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightOffsets = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	royalOffsets    = append(append([]offset{}, diagonalOffsets...), straightOffsets...)
)

// patterns is indexed by PieceType. Pawns are handled separately because
// their geometry depends on color and occupancy.
var patterns = [...]pattern{
	Knight: {offsets: knightOffsets},
	Bishop: {offsets: diagonalOffsets, slides: true},
	Rook:   {offsets: straightOffsets, slides: true},
	Queen:  {offsets: royalOffsets, slides: true},
	King:   {offsets: royalOffsets},
}

// reaches reports whether the geometry of pt allows from->to on an empty
// board, ignoring pawns and castling.
func reaches(pt PieceType, from, to Square) bool {
	dr, dc := to.Row()-from.Row(), to.Col()-from.Col()
	if dr == 0 && dc == 0 {
		return false
	}
	p := patterns[pt]
	if !p.slides {
		for _, o := range p.offsets {
			if o.dr == dr && o.dc == dc {
				return true
			}
		}
		return false
	}
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return false
	}
	step := offset{sign(dr), sign(dc)}
	for _, o := range p.offsets {
		if o == step {
			return true
		}
	}
	return false
}

// attacked reports whether sq is attacked by any piece of color by.
func attacked(b *Board, sq Square, by Color) bool {
	// pawns attack diagonally forward, so look one row behind from their side
	dir := by.pawnDir()
	for _, dc := range [2]int{-1, 1} {
		if from, ok := sq.Offset(-dir, dc); ok {
			if p, _ := b.Get(from); p == NewPiece(Pawn, by) {
				return true
			}
		}
	}
	for _, pt := range [...]PieceType{Knight, King} {
		for _, o := range patterns[pt].offsets {
			if from, ok := sq.Offset(o.dr, o.dc); ok {
				if p, _ := b.Get(from); p == NewPiece(pt, by) {
					return true
				}
			}
		}
	}
	for _, o := range royalOffsets {
		diagonal := o.dr != 0 && o.dc != 0
		cur := sq
		for {
			next, ok := cur.Offset(o.dr, o.dc)
			if !ok {
				break
			}
			cur = next
			p, occupied := b.Get(cur)
			if !occupied {
				continue
			}
			if p.Color == by && (p.Type == Queen || (diagonal && p.Type == Bishop) || (!diagonal && p.Type == Rook)) {
				return true
			}
			break
		}
	}
	return false
}
