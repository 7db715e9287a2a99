package session

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrConflict       = errors.New("game was modified concurrently")
	ErrNotParticipant = errors.New("user not in game")
	ErrGameNotActive  = errors.New("game no longer active")
)

// Store persists games. Update runs fn on a fresh copy of the stored game
// and writes the result atomically; when fn returns an error nothing is
// written and that error is returned unchanged. A concurrent writer
// surfaces as ErrConflict.
type Store interface {
	Create(ctx context.Context, g *Game) error
	Get(ctx context.Context, id string) (*Game, error)
	Update(ctx context.Context, id string, fn func(*Game) error) (*Game, error)
	GamesByPlayer(ctx context.Context, userID string) ([]*Game, error)
	Close() error
}

func gameKey(id string) string        { return "chess:game:" + strings.TrimSpace(id) }
func idxUserKey(userID string) string { return "chess:index:user:" + strings.TrimSpace(userID) }

func participants(g *Game) []string {
	ids := make([]string, 0, 2)
	for _, id := range []string{g.WhiteID, g.BlackID} {
		id = strings.TrimSpace(id)
		if id == "" || (len(ids) > 0 && ids[0] == id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
