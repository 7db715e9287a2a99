package session

import (
    "context"
    "crypto/rand"
    "errors"
    "fmt"
    "math/big"
    "sort"
    "strings"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/park285/cheese-chess/internal/chess"
    "github.com/park285/cheese-chess/internal/domain"
    "github.com/park285/cheese-chess/internal/msgcat"
    "github.com/park285/cheese-chess/internal/obslog"
    "github.com/park285/cheese-chess/pkg/chessdto"
)

// Manager owns game sessions: every read-modify-write of a game goes
// through Store.Update, so one caller at a time mutates a given game.
type Manager struct {
    store   Store
    archive Archive
    catalog *msgcat.Catalog
    now     func() time.Time
}

func NewManager(store Store, catalog *msgcat.Catalog) *Manager {
    return &Manager{store: store, catalog: catalog, now: time.Now}
}

// AttachArchive wires a result archive for finished games.
func (m *Manager) AttachArchive(a Archive) {
    if m != nil {
        m.archive = a
    }
}

// Catalog returns the message catalog used for user texts (may be nil).
func (m *Manager) Catalog() *msgcat.Catalog { return m.catalog }

func (m *Manager) Close() error {
    if m == nil { return nil }
    var errs []error
    if m.store != nil { errs = append(errs, m.store.Close()) }
    if m.archive != nil { errs = append(errs, m.archive.Close()) }
    return errors.Join(errs...)
}

// Create starts a game between challenger and opponent.
func (m *Manager) Create(ctx context.Context, p CreateParams) (*Game, error) {
    if m == nil || m.store == nil { return nil, fmt.Errorf("session manager not initialized") }
    challengerID, opponentID := strings.TrimSpace(p.ChallengerID), strings.TrimSpace(p.OpponentID)
    if challengerID == "" || opponentID == "" { return nil, fmt.Errorf("invalid participants") }

    fen := strings.TrimSpace(p.FEN)
    if fen == "" { fen = chess.StartFEN }
    st, err := chess.ParseFEN(fen)
    if err != nil {
        return nil, &chessdto.DomainError{Code: string(chess.ReasonMalformedInput), Message: err.Error(), Err: err}
    }
    if st.Status().Terminal() {
        return nil, &chessdto.DomainError{Code: string(chess.ReasonGameOver), Message: m.catalog.Reason(string(chess.ReasonGameOver))}
    }

    whiteID, whiteName := challengerID, nameOr(p.ChallengerName, challengerID)
    blackID, blackName := opponentID, nameOr(p.OpponentName, opponentID)
    switch strings.ToLower(strings.TrimSpace(p.Color)) {
    case "white", "w":
    case "black", "b":
        whiteID, whiteName, blackID, blackName = blackID, blackName, whiteID, whiteName
    default: // random using crypto/rand
        if n, _ := rand.Int(rand.Reader, big.NewInt(2)); n != nil && n.Int64() == 0 {
            whiteID, whiteName, blackID, blackName = blackID, blackName, whiteID, whiteName
        }
    }

    now := m.now()
    g := &Game{
        ID:        uuid.NewString(),
        StartFEN:  st.FEN(),
        FEN:       st.FEN(),
        MovesUCI:  []string{},
        MovesSAN:  []string{},
        Turn:      colorOf(st.Turn),
        Status:    StatusActive,
        Check:     st.InCheck(),
        WhiteID:   whiteID,
        WhiteName: whiteName,
        BlackID:   blackID,
        BlackName: blackName,
        CreatedAt: now,
        UpdatedAt: now,
    }
    if err := m.store.Create(ctx, g); err != nil { return nil, err }
    obslog.L().Info("game_create",
        zap.String("game_id", g.ID),
        zap.String("white_id", g.WhiteID),
        zap.String("black_id", g.BlackID),
        zap.String("fen", g.StartFEN),
    )
    return g, nil
}

// Load returns the game by ID.
func (m *Manager) Load(ctx context.Context, id string) (*Game, error) {
    return m.store.Get(ctx, strings.TrimSpace(id))
}

// ActiveGameForPlayer returns the most recently updated active game of
// userID, or ErrGameNotFound.
func (m *Manager) ActiveGameForPlayer(ctx context.Context, userID string) (*Game, error) {
    userID = strings.TrimSpace(userID)
    if userID == "" { return nil, ErrGameNotFound }
    games, err := m.store.GamesByPlayer(ctx, userID)
    if err != nil { return nil, err }
    var list []*Game
    for _, g := range games {
        if g.Active() { list = append(list, g) }
    }
    if len(list) == 0 { return nil, ErrGameNotFound }
    // Prefer most recently updated
    sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
    return list[0], nil
}

// LegalMoves returns the destinations of the piece on square (algebraic,
// e.g. "e2") in game id. A finished game has none.
func (m *Manager) LegalMoves(ctx context.Context, id, square string) ([]string, error) {
    g, err := m.Load(ctx, id)
    if err != nil { return nil, err }
    sq, err := chess.ParseSquare(square)
    if err != nil { return nil, m.domainError(err) }
    st, err := g.Replay()
    if err != nil { return nil, err }
    targets := chess.LegalMoves(st, sq)
    out := make([]string, 0, len(targets))
    for _, to := range targets {
        out = append(out, to.String())
    }
    return out, nil
}

// PlayMove applies moveText (coordinate notation, e.g. "e2e4" or "e7e8q")
// for userID. Illegal moves come back as *chessdto.DomainError carrying the
// rejection reason; the stored game is left unchanged.
func (m *Manager) PlayMove(ctx context.Context, id, userID, moveText string) (*MoveOutcome, error) {
    userID = strings.TrimSpace(userID)
    var (
        res   chess.Result
        mover Color
    )
    g, err := m.store.Update(ctx, strings.TrimSpace(id), func(cur *Game) error {
        mv, err := chess.ParseMove(moveText)
        if err != nil { return err }
        if !cur.Active() { return &chess.Rejection{Reason: chess.ReasonGameOver, Move: mv} }
        color := cur.PlayerColor(userID)
        if color == "" { return ErrNotParticipant }
        st, err := cur.Replay()
        if err != nil { return fmt.Errorf("game %s: %w", cur.ID, err) }
        if color != colorOf(st.Turn) {
            return &chess.Rejection{Reason: chess.ReasonNotYourTurn, Move: mv}
        }
        res, err = chess.Submit(st, mv)
        if err != nil { return err }

        cur.MovesUCI = append(cur.MovesUCI, mv.String())
        cur.MovesSAN = append(cur.MovesSAN, res.SAN)
        cur.FEN = st.FEN()
        cur.Turn = colorOf(st.Turn)
        cur.Check = res.Check
        cur.UpdatedAt = m.now()
        finish(cur, res.Status, color)
        mover = color
        return nil
    })
    if err != nil {
        derr := m.domainError(err)
        var de *chessdto.DomainError
        if errors.As(derr, &de) {
            obslog.L().Info("game_move_rejected",
                zap.String("game_id", id),
                zap.String("user_id", userID),
                zap.String("move", strings.TrimSpace(moveText)),
                zap.String("reason", de.Code),
            )
        }
        return nil, derr
    }

    obslog.L().Info("game_move",
        zap.String("game_id", g.ID),
        zap.String("user_id", userID),
        zap.String("uci", res.Move.String()),
        zap.String("san", res.SAN),
        zap.String("turn", string(g.Turn)),
        zap.String("status", string(g.Status)),
        zap.String("outcome", g.Outcome),
    )
    if !g.Active() {
        _ = m.persistIfFinal(ctx, g)
    }
    return &MoveOutcome{Game: g, Result: res, Text: m.moveText(g, res, mover)}, nil
}

// Resign ends game id with userID's opponent as the winner.
func (m *Manager) Resign(ctx context.Context, id, userID string) (*Game, error) {
    userID = strings.TrimSpace(userID)
    g, err := m.store.Update(ctx, strings.TrimSpace(id), func(cur *Game) error {
        if !cur.Active() { return ErrGameNotActive }
        color := cur.PlayerColor(userID)
        if color == "" { return ErrNotParticipant }
        winner := White
        if color == White { winner = Black }
        cur.Status = StatusResigned
        cur.Winner = cur.playerID(winner)
        cur.Outcome = string(winner)
        cur.Method = MethodResignation
        cur.UpdatedAt = m.now()
        return nil
    })
    if err != nil { return nil, m.domainError(err) }
    obslog.L().Info("game_resign",
        zap.String("game_id", g.ID),
        zap.String("resigner", userID),
        zap.String("winner", g.Winner),
    )
    _ = m.persistIfFinal(ctx, g)
    return g, nil
}

// History returns the archived games of playerID, newest first. Without
// an archive it returns nothing.
func (m *Manager) History(ctx context.Context, playerID string, limit int) ([]*domain.ArchivedGame, error) {
    if m.archive == nil { return nil, nil }
    return m.archive.RecentGames(ctx, strings.TrimSpace(playerID), limit)
}

// OutcomeText describes how a finished game ended, or "" while it is active.
func (m *Manager) OutcomeText(g *Game) string {
    if g == nil || g.Active() { return "" }
    winner, loser := White, Black
    if g.Outcome == string(Black) { winner, loser = Black, White }
    data := map[string]any{"Winner": g.PlayerName(winner), "Loser": g.PlayerName(loser)}
    return m.catalog.Text("outcome."+g.Method, data, g.Method)
}

func (m *Manager) moveText(g *Game, res chess.Result, mover Color) string {
    lines := []string{m.catalog.Text("move.accepted",
        map[string]any{"Player": g.PlayerName(mover), "SAN": res.SAN},
        fmt.Sprintf("%s: %s", g.PlayerName(mover), res.SAN))}
    switch {
    case !g.Active():
        lines = append(lines, m.OutcomeText(g))
    case res.Check:
        lines = append(lines, m.catalog.Text("move.check",
            map[string]any{"Player": g.PlayerName(g.Turn)}, "Check."))
    }
    return strings.Join(lines, "\n")
}

// finish records a terminal rules status on the game.
func finish(g *Game, status chess.Status, mover Color) {
    switch {
    case status == chess.StatusCheckmate:
        g.Status = StatusFinished
        g.Winner = g.playerID(mover)
        g.Outcome = string(mover)
        g.Method = string(status)
    case status.Draw():
        g.Status = StatusDraw
        g.Outcome = "draw"
        g.Method = string(status)
    }
}

// domainError maps rejections and session failures onto user-facing
// errors. Anything else is returned unchanged.
func (m *Manager) domainError(err error) error {
    switch {
    case errors.Is(err, ErrConflict):
        return &chessdto.DomainError{Code: "conflict", Message: m.catalog.Reason("conflict"), Retryable: true, Err: err}
    case errors.Is(err, ErrNotParticipant):
        return &chessdto.DomainError{Code: "not_participant", Message: m.catalog.Reason("not_participant"), Err: err}
    case errors.Is(err, ErrGameNotActive):
        code := string(chess.ReasonGameOver)
        return &chessdto.DomainError{Code: code, Message: m.catalog.Reason(code), Err: err}
    }
    if reason := chess.ReasonOf(err); reason != "" {
        return &chessdto.DomainError{Code: string(reason), Message: m.catalog.Reason(string(reason)), Err: err}
    }
    return err
}

// persistIfFinal saves the final game result to the archive if available.
func (m *Manager) persistIfFinal(ctx context.Context, g *Game) error {
    if m == nil || m.archive == nil || g == nil || g.Active() {
        return nil
    }
    if err := m.archive.SaveResult(ctx, g); err != nil {
        obslog.L().Error("game_result_persist_error", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.Error(err))
        return err
    }
    obslog.L().Info("game_result_persist", zap.String("game_id", g.ID), zap.String("outcome", g.Outcome), zap.String("method", g.Method))
    return nil
}

func nameOr(name, fallback string) string {
    if s := strings.TrimSpace(name); s != "" { return s }
    return fallback
}
