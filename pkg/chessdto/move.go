package chessdto

// MoveSummary describes an accepted move.
type MoveSummary struct {
	State     *GameState
	UCI       string
	SAN       string
	Piece     string
	Captured  string
	Castle    bool
	EnPassant bool
	Promotion string
	Check     bool
	Finished  bool
	Text      string
}
