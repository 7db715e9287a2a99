package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/park285/cheese-chess/internal/chess"
	"github.com/park285/cheese-chess/internal/domain"
	"github.com/park285/cheese-chess/internal/util"
)

// Archive stores finished games.
type Archive interface {
	SaveResult(ctx context.Context, g *Game) error
	RecentGames(ctx context.Context, playerID string, limit int) ([]*domain.ArchivedGame, error)
	Close() error
}

// MemoryArchive is an Archive kept in process memory.
type MemoryArchive struct {
	mu    sync.RWMutex
	games map[string]*domain.ArchivedGame
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{games: make(map[string]*domain.ArchivedGame)}
}

// SaveResult upserts the archived record for g.
func (a *MemoryArchive) SaveResult(_ context.Context, g *Game) error {
	rec := toArchived(g)
	if rec == nil {
		return nil
	}
	a.mu.Lock()
	a.games[rec.GameID] = rec
	a.mu.Unlock()
	return nil
}

func (a *MemoryArchive) RecentGames(_ context.Context, playerID string, limit int) ([]*domain.ArchivedGame, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	items := make([]*domain.ArchivedGame, 0)
	for _, g := range a.games {
		if g.WhiteID == playerID || g.BlackID == playerID {
			cp := *g
			items = append(items, &cp)
		}
	}
	// Sort by EndedAt desc (fallback to ID)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].GameID > items[j].GameID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (a *MemoryArchive) Close() error { return nil }

// toArchived converts a finished game into its archive record; it returns
// nil for games still in progress.
func toArchived(g *Game) *domain.ArchivedGame {
	if g == nil || g.Active() {
		return nil
	}
	result := pgnResult(g.Outcome)
	duration := g.UpdatedAt.Sub(g.CreatedAt)
	if duration < 0 {
		duration = 0
	}
	return &domain.ArchivedGame{
		GameID:       g.ID,
		WhiteID:      g.WhiteID,
		WhiteName:    g.WhiteName,
		BlackID:      g.BlackID,
		BlackName:    g.BlackName,
		StartFEN:     g.StartFEN,
		Result:       result,
		ResultMethod: g.Method,
		MovesUCI:     append([]string(nil), g.MovesUCI...),
		MovesSAN:     append([]string(nil), g.MovesSAN...),
		PGN:          buildPGN(g, result),
		StartedAt:    g.CreatedAt,
		EndedAt:      g.UpdatedAt,
		Duration:     duration,
	}
}

func pgnResult(outcome string) string {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case string(White):
		return "1-0"
	case string(Black):
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}

// buildPGN renders the game as PGN with a Seven Tag Roster plus SetUp/FEN
// tags when the game did not start from the standard position.
func buildPGN(g *Game, result string) string {
	var b strings.Builder
	date := g.UpdatedAt
	if date.IsZero() {
		date = time.Now()
	}
	b.WriteString("[Event \"Casual Game\"]\n")
	b.WriteString("[Site \"cheese-chess\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString("[Round \"-\"]\n")
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitizePGN(g.WhiteName)))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitizePGN(g.BlackName)))
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n", result))
	if g.StartFEN != "" && g.StartFEN != chess.StartFEN {
		b.WriteString("[SetUp \"1\"]\n")
		b.WriteString(fmt.Sprintf("[FEN \"%s\"]\n", g.StartFEN))
	}
	if g.Method != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitizePGN(g.Method)))
	}
	b.WriteString("\n")

	number, blackFirst := 1, false
	if st, err := chess.ParseFEN(g.StartFEN); err == nil {
		number, blackFirst = st.FullMoveNumber, st.Turn == chess.Black
	}
	if moves := util.MoveList(g.MovesSAN, number, blackFirst); moves != "" {
		b.WriteString(moves)
		b.WriteString(" ")
	}
	b.WriteString(result)
	return b.String()
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
