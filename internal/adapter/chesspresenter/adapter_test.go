package chesspresenter

import (
	"context"
	"testing"
	"time"

	"github.com/park285/cheese-chess/internal/domain"
	"github.com/park285/cheese-chess/internal/msgcat"
	"github.com/park285/cheese-chess/internal/session"
	"github.com/park285/cheese-chess/pkg/chessdto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*Adapter, *msgcat.Catalog) {
	t.Helper()
	cat, err := msgcat.New("")
	require.NoError(t, err)
	mgr := session.NewManager(session.NewMemoryStore(), cat)
	mgr.AttachArchive(session.NewMemoryArchive())
	return NewAdapter(mgr, 0), cat
}

func startGame(t *testing.T, a *Adapter) *chessdto.GameState {
	t.Helper()
	resp, err := a.Start(context.Background(), chessdto.StartRequest{
		Meta:         chessdto.RequestMeta{Sender: "u1"},
		OpponentID:   "u2",
		SenderName:   "Alice",
		OpponentName: "Bob",
		Color:        "white",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.State)
	assert.Contains(t, resp.Text, "Alice (white) vs Bob (black)")
	return resp.State
}

func move(t *testing.T, a *Adapter, sender, uci string) *chessdto.MoveSummary {
	t.Helper()
	resp, err := a.SubmitMove(context.Background(), chessdto.SubmitMoveRequest{
		Meta: chessdto.RequestMeta{Sender: sender},
		Move: uci,
	})
	require.NoError(t, err, uci)
	return resp.Summary
}

func TestAdapterResolvesActiveGame(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.Status(ctx, chessdto.StatusRequest{Meta: chessdto.RequestMeta{Sender: "u1"}})
	require.ErrorIs(t, err, ErrNoGame)

	state := startGame(t, a)
	assert.Equal(t, "white", state.Turn)
	assert.Equal(t, chessdto.MaterialScore{White: 39, Black: 39}, state.Material)

	st, err := a.Status(ctx, chessdto.StatusRequest{Meta: chessdto.RequestMeta{Sender: "u2"}})
	require.NoError(t, err)
	assert.Equal(t, state.GameID, st.State.GameID)

	lm, err := a.LegalMoves(ctx, chessdto.LegalMovesRequest{Meta: chessdto.RequestMeta{Sender: "u1"}, Square: " E2 "})
	require.NoError(t, err)
	assert.Equal(t, "e2", lm.Square)
	assert.Equal(t, []string{"e3", "e4"}, lm.Targets)
}

func TestAdapterMoveSummaryTracksCaptures(t *testing.T) {
	a, _ := newTestAdapter(t)
	startGame(t, a)

	first := move(t, a, "u1", "e2e4")
	assert.Equal(t, "e4", first.SAN)
	assert.Equal(t, "pawn", first.Piece)
	assert.Empty(t, first.Captured)

	move(t, a, "u2", "d7d5")
	capture := move(t, a, "u1", "e4d5")
	assert.Equal(t, "exd5", capture.SAN)
	assert.Equal(t, "pawn", capture.Captured)
	assert.Equal(t, []string{"pawn"}, capture.State.Captured.White)
	assert.Empty(t, capture.State.Captured.Black)
	assert.Equal(t, chessdto.MaterialScore{White: 39, Black: 38}, capture.State.Material)
	assert.Equal(t, 3, capture.State.MoveCount)
	assert.False(t, capture.Finished)

	_, err := a.SubmitMove(context.Background(), chessdto.SubmitMoveRequest{
		Meta: chessdto.RequestMeta{Sender: "u1"}, Move: "d1d7",
	})
	var de *chessdto.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "not_your_turn", de.Code)
}

func TestAdapterResignAndHistory(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()
	state := startGame(t, a)
	move(t, a, "u1", "f2f3")

	resp, err := a.Resign(ctx, chessdto.ResignRequest{Meta: chessdto.RequestMeta{GameID: state.GameID, Sender: "u2"}})
	require.NoError(t, err)
	assert.Equal(t, "Bob resigned. Alice wins.", resp.Text)
	assert.True(t, resp.State.Finished)
	assert.Equal(t, "white", resp.State.Outcome)

	hist, err := a.History(ctx, chessdto.HistoryRequest{Meta: chessdto.RequestMeta{Sender: "u1"}})
	require.NoError(t, err)
	require.Len(t, hist.Games, 1)
	assert.Equal(t, "1-0", hist.Games[0].Result)
	assert.Equal(t, "resignation", hist.Games[0].ResultMethod)
	assert.Contains(t, hist.Games[0].PGN, "1. f3 1-0")
	assert.Equal(t, 1, hist.Record.Wins)

	_, err = a.Status(ctx, chessdto.StatusRequest{Meta: chessdto.RequestMeta{Sender: "u1"}})
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestToDTORecordStreak(t *testing.T) {
	now := time.Now()
	games := []*domain.ArchivedGame{
		{GameID: "g4", WhiteID: "p", BlackID: "q", Result: "1-0", EndedAt: now},
		{GameID: "g3", WhiteID: "q", BlackID: "p", Result: "0-1", EndedAt: now.Add(-time.Minute)},
		{GameID: "g2", WhiteID: "p", BlackID: "q", Result: "1/2-1/2", EndedAt: now.Add(-2 * time.Minute)},
		{GameID: "g1", WhiteID: "p", BlackID: "q", Result: "1-0", EndedAt: now.Add(-3 * time.Minute)},
		{GameID: "g0", WhiteID: "x", BlackID: "y", Result: "1-0", EndedAt: now.Add(-4 * time.Minute)},
	}
	rec := ToDTORecord("p", games)
	assert.Equal(t, &chessdto.PlayerRecord{
		PlayerID: "p", GamesPlayed: 4, Wins: 3, Draws: 1, Streak: 2, StreakType: "win",
	}, rec)

	other := ToDTORecord("q", games)
	assert.Equal(t, 3, other.Losses)
	assert.Equal(t, "loss", other.StreakType)
	assert.Equal(t, 2, other.Streak)
}
