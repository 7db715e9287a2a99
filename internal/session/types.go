package session

import (
	"fmt"
	"time"

	"github.com/park285/cheese-chess/internal/chess"
)

// Color identifies chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func colorOf(c chess.Color) Color {
	if c == chess.White {
		return White
	}
	return Black
}

// Status represents a game lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
	StatusDraw     Status = "DRAW"
)

// MethodResignation is the termination method recorded for resigned games.
// Other methods reuse the rules engine status names.
const MethodResignation = "resignation"

// Game is the persisted state of a match. The position is never stored
// alone: StartFEN plus MovesUCI is replayed so repetition history survives.
type Game struct {
	ID        string    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	FEN       string    `json:"fen"`
	MovesUCI  []string  `json:"moves_uci"`
	MovesSAN  []string  `json:"moves_san"`
	Turn      Color     `json:"turn"`
	Status    Status    `json:"status"`
	Check     bool      `json:"check,omitempty"`
	WhiteID   string    `json:"white_id"`
	WhiteName string    `json:"white_name"`
	BlackID   string    `json:"black_id"`
	BlackName string    `json:"black_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Winner    string    `json:"winner,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Method    string    `json:"method,omitempty"`
}

// Active reports whether moves may still be played.
func (g *Game) Active() bool { return g != nil && g.Status == StatusActive }

// PlayerColor returns the side userID plays, or "" for outsiders.
func (g *Game) PlayerColor(userID string) Color {
	switch userID {
	case "":
		return ""
	case g.WhiteID:
		if g.WhiteID == g.BlackID {
			// same user on both sides: acts for the side to move
			return g.Turn
		}
		return White
	case g.BlackID:
		return Black
	}
	return ""
}

// PlayerName returns the display name for a side.
func (g *Game) PlayerName(c Color) string {
	if c == White {
		return g.WhiteName
	}
	return g.BlackName
}

func (g *Game) playerID(c Color) string {
	if c == White {
		return g.WhiteID
	}
	return g.BlackID
}

func (g *Game) opponentID(userID string) string {
	if g.WhiteID == userID {
		return g.BlackID
	}
	if g.BlackID == userID {
		return g.WhiteID
	}
	return ""
}

func (g *Game) clone() *Game {
	if g == nil {
		return nil
	}
	cp := *g
	cp.MovesUCI = append([]string(nil), g.MovesUCI...)
	cp.MovesSAN = append([]string(nil), g.MovesSAN...)
	return &cp
}

// Replay rebuilds the rules state from the start position and the stored
// moves.
func (g *Game) Replay() (*chess.GameState, error) {
	return g.ReplayEach(nil)
}

// ReplayEach is Replay calling fn, when set, with the result of every ply.
// Results carry no SAN; the stored MovesSAN already has it.
func (g *Game) ReplayEach(fn func(chess.Result)) (*chess.GameState, error) {
	st, err := chess.ParseFEN(g.StartFEN)
	if err != nil {
		return nil, err
	}
	for i, raw := range g.MovesUCI {
		m, err := chess.ParseMove(raw)
		if err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		res, err := chess.Apply(st, m)
		if err != nil {
			return nil, fmt.Errorf("replay ply %d: %w", i+1, err)
		}
		if fn != nil {
			fn(res)
		}
	}
	return st, nil
}

// CreateParams describes a new game. Color is the challenger's side:
// "white", "black" or anything else for a random draw.
type CreateParams struct {
	ChallengerID   string
	ChallengerName string
	OpponentID     string
	OpponentName   string
	Color          string
	FEN            string
}

// MoveOutcome is the result of an accepted move.
type MoveOutcome struct {
	Game   *Game
	Result chess.Result
	Text   string
}
