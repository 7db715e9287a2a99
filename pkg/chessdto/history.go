package chessdto

import "time"

type ChessGame struct {
	GameID       string
	White        Player
	Black        Player
	Result       string
	ResultMethod string
	MovesUCI     []string
	MovesSAN     []string
	PGN          string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
