package domain

import "time"

// ArchivedGame is a finished game as stored by a result archive.
type ArchivedGame struct {
	GameID       string
	WhiteID      string
	WhiteName    string
	BlackID      string
	BlackName    string
	StartFEN     string
	Result       string // "1-0", "0-1" or "1/2-1/2"
	ResultMethod string
	MovesUCI     []string
	MovesSAN     []string
	PGN          string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}

// ResultFor returns "win", "loss" or "draw" from playerID's point of view,
// or "" when the player did not take part.
func (g *ArchivedGame) ResultFor(playerID string) string {
	if g == nil || playerID == "" {
		return ""
	}
	if g.Result == "1/2-1/2" {
		return "draw"
	}
	white := g.Result == "1-0"
	switch playerID {
	case g.WhiteID:
		if white {
			return "win"
		}
		return "loss"
	case g.BlackID:
		if white {
			return "loss"
		}
		return "win"
	}
	return ""
}
