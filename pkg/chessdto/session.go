package chessdto

// MaterialScore is the summed piece value left on the board per side
// (pawn 1, knight 3, bishop 3, rook 5, queen 9).
type MaterialScore struct {
	White int
	Black int
}

// CapturedPieces lists piece tokens ("queen", "pawn", ...) each side has
// captured from the other.
type CapturedPieces struct {
	White []string
	Black []string
}

type Player struct {
	ID   string
	Name string
}

type GameState struct {
	GameID    string
	FEN       string
	Turn      string
	Status    string
	Check     bool
	White     Player
	Black     Player
	MovesSAN  []string
	MovesUCI  []string
	MoveCount int
	Material  MaterialScore
	Captured  CapturedPieces
	Outcome   string
	Method    string
	Winner    string
	Finished  bool
}
