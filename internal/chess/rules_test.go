package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, text string) Square {
	t.Helper()
	s, err := ParseSquare(text)
	require.NoError(t, err)
	return s
}

func mustFEN(t *testing.T, fen string) *GameState {
	t.Helper()
	st, err := ParseFEN(fen)
	require.NoError(t, err)
	return st
}

func play(t *testing.T, st *GameState, moves ...string) Result {
	t.Helper()
	var res Result
	for _, text := range moves {
		m, err := ParseMove(text)
		require.NoError(t, err)
		res, err = Submit(st, m)
		require.NoError(t, err, "move %s", text)
	}
	return res
}

func requireRejected(t *testing.T, st *GameState, text string, want Reason) {
	t.Helper()
	m, err := ParseMove(text)
	require.NoError(t, err)
	before := st.FEN()
	_, err = Submit(st, m)
	require.Error(t, err, "move %s", text)
	assert.Equal(t, want, ReasonOf(err), "move %s", text)
	assert.Equal(t, before, st.FEN(), "rejected move %s mutated the state", text)
}

func TestPawnsOnStartRowHaveTwoForwardMoves(t *testing.T) {
	white := NewGame()
	black := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	for col := 0; col < 8; col++ {
		assert.Equal(t, []Square{NewSquare(2, col), NewSquare(3, col)}, LegalMoves(white, NewSquare(1, col)))
		assert.Equal(t, []Square{NewSquare(4, col), NewSquare(5, col)}, LegalMoves(black, NewSquare(6, col)))
	}
}

func TestOpeningPawnPush(t *testing.T) {
	st := NewGame()
	assert.True(t, IsLegal(st, sq(t, "e2"), sq(t, "e4")))
	assert.False(t, IsLegal(st, sq(t, "e2"), sq(t, "e5")))
	requireRejected(t, st, "e2e5", ReasonIllegalPattern)

	res := play(t, st, "e2e4")
	assert.Equal(t, "e4", res.SAN)
	assert.Equal(t, Black, st.Turn)
	assert.Equal(t, sq(t, "e3"), st.EnPassant)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", st.FEN())

	play(t, st, "g8f6")
	assert.Equal(t, NoSquare, st.EnPassant)
	assert.Equal(t, 2, st.FullMoveNumber)
	assert.Equal(t, 1, st.HalfMoveClock)
}

func TestRejectionReasons(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want Reason
	}{
		{"empty square", StartFEN, "e4e5", ReasonNoPiece},
		{"wrong side", StartFEN, "e7e5", ReasonNotYourTurn},
		{"same square", StartFEN, "e2e2", ReasonSameSquare},
		{"own piece on target", StartFEN, "d1d2", ReasonOccupiedByOwn},
		{"rook blocked", StartFEN, "a1a3", ReasonBlockedPath},
		{"bishop blocked", StartFEN, "c1g5", ReasonBlockedPath},
		{"knight geometry", StartFEN, "g1g3", ReasonIllegalPattern},
		{"pawn diagonal without capture", StartFEN, "e2d3", ReasonIllegalPattern},
		{"pawn push into piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2e3", ReasonBlockedPath},
		{"pawn double push through piece", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2e4", ReasonBlockedPath},
		{"pawn double push off start row", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", "e3e5", ReasonIllegalPattern},
		{"pinned bishop", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2d3", ReasonKingExposed},
		{"king walks into check", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", "e1e2", ReasonKingExposed},
		{"ignores check with rook", "4k3/8/8/8/8/8/4r3/R3K3 w - - 0 1", "a1a2", ReasonKingExposed},
		{"ignores check with pawn", "4k3/8/8/8/8/8/P3r3/4K3 w - - 0 1", "a2a3", ReasonKingExposed},
		{"promotion without choice", "8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8", ReasonPromotionRequired},
		{"promotion to king", "8/P7/8/8/8/8/8/k6K w - - 0 1", "a7a8k", ReasonInvalidPromotion},
		{"promotion off last row", StartFEN, "e2e4q", ReasonInvalidPromotion},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			requireRejected(t, mustFEN(t, tc.fen), tc.move, tc.want)
		})
	}
}

func TestIllegalSquaresAreMalformed(t *testing.T) {
	_, err := ParseMove("z9a1")
	require.ErrorIs(t, err, ErrMalformedMove)
	assert.Equal(t, ReasonMalformedInput, ReasonOf(err))

	err = Validate(NewGame(), Move{From: NoSquare, To: sq(t, "e4")})
	assert.Equal(t, ReasonMalformedInput, ReasonOf(err))
}

func TestNoLegalMoveLeavesOwnKingInCheck(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range positions {
		st := mustFEN(t, fen)
		for _, m := range AllLegalMoves(st) {
			next := st.Clone()
			mover := next.Turn
			next.apply(m)
			assert.False(t, kingAttacked(&next.Board, mover), "%s in %s exposes the king", m, fen)
		}
	}
}

func TestCastling(t *testing.T) {
	const open = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("king side", func(t *testing.T) {
		st := mustFEN(t, open)
		res := play(t, st, "e1g1")
		assert.True(t, res.Castle)
		assert.Equal(t, "O-O", res.SAN)
		rook, ok := st.Board.Get(sq(t, "f1"))
		require.True(t, ok)
		assert.Equal(t, NewPiece(Rook, White), rook)
		assert.Equal(t, "kq", st.Castling.String())
	})

	t.Run("queen side", func(t *testing.T) {
		st := mustFEN(t, open)
		res := play(t, st, "e1c1")
		assert.Equal(t, "O-O-O", res.SAN)
		rook, _ := st.Board.Get(sq(t, "d1"))
		assert.Equal(t, NewPiece(Rook, White), rook)
		_, ok := st.Board.Get(sq(t, "a1"))
		assert.False(t, ok)
	})

	t.Run("rook capture clears rights", func(t *testing.T) {
		st := mustFEN(t, open)
		play(t, st, "a1a8")
		assert.Equal(t, "Kk", st.Castling.String())
	})

	t.Run("rook move clears one wing", func(t *testing.T) {
		st := mustFEN(t, open)
		play(t, st, "h1h2")
		assert.Equal(t, "Qkq", st.Castling.String())
	})

	tests := []struct {
		name string
		fen  string
		move string
		want Reason
	}{
		{"right lost", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", ReasonCastlingUnavailable},
		{"path blocked", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", "e1g1", ReasonBlockedPath},
		{"transit attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", "e1g1", ReasonCastlingThroughCheck},
		{"in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", "e1g1", ReasonCastlingThroughCheck},
		{"destination attacked", "r3k2r/8/8/8/8/8/6r1/R3K2R w KQkq - 0 1", "e1g1", ReasonKingExposed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			requireRejected(t, mustFEN(t, tc.fen), tc.move, tc.want)
		})
	}

	st := mustFEN(t, "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
	assert.True(t, IsLegal(st, sq(t, "e1"), sq(t, "c1")))
}

func TestEnPassant(t *testing.T) {
	st := mustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	res := play(t, st, "e5d6")
	assert.True(t, res.EnPassant)
	assert.Equal(t, NewPiece(Pawn, Black), res.Captured)
	assert.Equal(t, "exd6", res.SAN)
	_, ok := st.Board.Get(sq(t, "d5"))
	assert.False(t, ok)
	assert.Equal(t, 0, st.HalfMoveClock)

	// both pawns leave the fifth row and open the rook's line to the king
	requireRejected(t, mustFEN(t, "8/8/8/K2pP2r/8/8/8/4k3 w - d6 0 2"), "e5d6", ReasonKingExposed)

	// the target expires after one move
	st = NewGame()
	play(t, st, "e2e4", "g8f6", "e4e5", "d7d5")
	assert.True(t, IsLegal(st, sq(t, "e5"), sq(t, "d6")))
	play(t, st, "b1c3", "b8c6")
	assert.False(t, IsLegal(st, sq(t, "e5"), sq(t, "d6")))
}

func TestApplyMatchesSubmitWithoutSAN(t *testing.T) {
	viaSubmit, viaApply := NewGame(), NewGame()
	for _, text := range []string{"e2e4", "d7d5", "e4d5", "g8f6"} {
		m, err := ParseMove(text)
		require.NoError(t, err)
		want, err := Submit(viaSubmit, m)
		require.NoError(t, err)
		got, err := Apply(viaApply, m)
		require.NoError(t, err)
		assert.Empty(t, got.SAN)
		got.SAN = want.SAN
		assert.Equal(t, want, got)
		assert.Equal(t, viaSubmit.FEN(), viaApply.FEN())
	}
	m, _ := ParseMove("e1e3")
	_, err := Apply(viaApply, m)
	assert.Equal(t, ReasonIllegalPattern, ReasonOf(err))
}

func TestEnPassantNeedsEnemyPawn(t *testing.T) {
	st := mustFEN(t, "4k3/8/8/3Pn3/8/8/8/4K3 w - - 0 1")
	st.EnPassant = sq(t, "e6")
	assert.Equal(t, []Square{sq(t, "d6")}, LegalMoves(st, sq(t, "d5")))
	requireRejected(t, st, "d5e6", ReasonIllegalPattern)

	st = mustFEN(t, StartFEN)
	st.EnPassant = sq(t, "e3")
	assert.Equal(t, []Square{sq(t, "d3"), sq(t, "d4")}, LegalMoves(st, sq(t, "d2")))
	requireRejected(t, st, "d2e3", ReasonIllegalPattern)

	// after a real double step the target is accepted and usable
	st = mustFEN(t, "4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 2")
	res := play(t, st, "d5e6")
	assert.True(t, res.EnPassant)
	assert.Equal(t, NewPiece(Pawn, Black), res.Captured)
}

func TestPromotion(t *testing.T) {
	st := mustFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	assert.Equal(t, []Square{sq(t, "a8")}, LegalMoves(st, sq(t, "a7")))
	assert.True(t, IsLegal(st, sq(t, "a7"), sq(t, "a8")))
	assert.Len(t, AllLegalMoves(st), 4+3)

	res := play(t, st, "a7a8q")
	assert.Equal(t, "a8=Q+", res.SAN)
	assert.True(t, res.Check)
	p, _ := st.Board.Get(sq(t, "a8"))
	assert.Equal(t, NewPiece(Queen, White), p)

	st = mustFEN(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	play(t, st, "a7a8n")
	p, _ = st.Board.Get(sq(t, "a8"))
	assert.Equal(t, NewPiece(Knight, White), p)
}

func TestCheckmateEndsTheGame(t *testing.T) {
	st := NewGame()
	res := play(t, st, "f2f3", "e7e5", "g2g4", "d8h4")
	assert.Equal(t, "Qh4#", res.SAN)
	assert.Equal(t, StatusCheckmate, res.Status)
	assert.True(t, st.InCheck())
	winner, ok := st.Winner()
	require.True(t, ok)
	assert.Equal(t, Black, winner)

	assert.Empty(t, AllLegalMoves(st))
	assert.Empty(t, LegalMoves(st, sq(t, "e1")))
	requireRejected(t, st, "e1f2", ReasonGameOver)
}

func TestDrawStatuses(t *testing.T) {
	t.Run("stalemate", func(t *testing.T) {
		st := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		assert.Equal(t, StatusStalemate, st.Status())
		assert.True(t, st.Status().Draw())
		assert.False(t, st.InCheck())
	})

	t.Run("fifty move rule", func(t *testing.T) {
		st := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
		res := play(t, st, "a1a2")
		assert.Equal(t, StatusFiftyMoveRule, res.Status)
	})

	t.Run("pawn move resets the clock", func(t *testing.T) {
		st := mustFEN(t, "4k3/8/8/8/8/8/P7/R3K3 w - - 99 80")
		res := play(t, st, "a2a3")
		assert.Equal(t, StatusOngoing, res.Status)
		assert.Equal(t, 0, st.HalfMoveClock)
	})

	t.Run("threefold repetition", func(t *testing.T) {
		st := NewGame()
		shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
		play(t, st, shuffle...)
		assert.Equal(t, 2, st.Repetitions())
		play(t, st, shuffle[:3]...)
		assert.Equal(t, StatusOngoing, st.Status())
		res := play(t, st, shuffle[3])
		assert.Equal(t, StatusThreefoldRepetition, res.Status)
	})

	t.Run("insufficient material", func(t *testing.T) {
		assert.Equal(t, StatusInsufficientMaterial, mustFEN(t, "4k3/8/8/8/8/8/8/4KB2 w - - 0 1").Status())
		assert.Equal(t, StatusInsufficientMaterial, mustFEN(t, "2b1k3/8/8/8/8/8/8/4KB2 w - - 0 1").Status())
		assert.Equal(t, StatusOngoing, mustFEN(t, "3bk3/8/8/8/8/8/8/4KB2 w - - 0 1").Status())

		st := mustFEN(t, "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1")
		res := play(t, st, "e1d2")
		assert.Equal(t, StatusInsufficientMaterial, res.Status)
		assert.Equal(t, NewPiece(Queen, Black), res.Captured)
	})
}

func TestReversibleMovesRestorePlacement(t *testing.T) {
	st := NewGame()
	start := st.Board
	play(t, st, "g1f3", "g8f6", "f3g1", "f6g8")
	assert.Equal(t, start, st.Board)
	assert.Equal(t, AllCastling, st.Castling)

	b := start
	b.Move(sq(t, "b1"), sq(t, "c3"))
	b.Move(sq(t, "c3"), sq(t, "b1"))
	assert.Equal(t, start, b)
}
