package chesspresenter

import (
    "context"
    "errors"
    "strings"

    "github.com/park285/cheese-chess/internal/chess"
    "github.com/park285/cheese-chess/internal/domain"
    "github.com/park285/cheese-chess/internal/session"
    "github.com/park285/cheese-chess/pkg/chessdto"
)

// ErrNoGame is returned when a request names no game and the sender has no
// active one.
var ErrNoGame = errors.New("no active game")

// Adapter serves chessdto requests on top of a session manager.
type Adapter struct {
    mgr          *session.Manager
    historyLimit int
}

func NewAdapter(mgr *session.Manager, historyLimit int) *Adapter {
    if historyLimit <= 0 { historyLimit = 10 }
    return &Adapter{mgr: mgr, historyLimit: historyLimit}
}

func (a *Adapter) Start(ctx context.Context, req chessdto.StartRequest) (*chessdto.StartResponse, error) {
    g, err := a.mgr.Create(ctx, session.CreateParams{
        ChallengerID:   req.Meta.Sender,
        ChallengerName: req.SenderName,
        OpponentID:     req.OpponentID,
        OpponentName:   req.OpponentName,
        Color:          req.Color,
        FEN:            req.FEN,
    })
    if err != nil { return nil, err }
    text := a.mgr.Catalog().Text("game.created",
        map[string]any{"ID": g.ID, "White": g.WhiteName, "Black": g.BlackName},
        g.WhiteName+" vs "+g.BlackName)
    return &chessdto.StartResponse{State: ToDTOState(g), Text: text}, nil
}

func (a *Adapter) Status(ctx context.Context, req chessdto.StatusRequest) (*chessdto.StatusResponse, error) {
    g, err := a.resolve(ctx, req.Meta)
    if err != nil { return nil, err }
    return &chessdto.StatusResponse{State: ToDTOState(g)}, nil
}

func (a *Adapter) LegalMoves(ctx context.Context, req chessdto.LegalMovesRequest) (*chessdto.LegalMovesResponse, error) {
    g, err := a.resolve(ctx, req.Meta)
    if err != nil { return nil, err }
    targets, err := a.mgr.LegalMoves(ctx, g.ID, req.Square)
    if err != nil { return nil, err }
    return &chessdto.LegalMovesResponse{Square: strings.ToLower(strings.TrimSpace(req.Square)), Targets: targets}, nil
}

func (a *Adapter) SubmitMove(ctx context.Context, req chessdto.SubmitMoveRequest) (*chessdto.SubmitMoveResponse, error) {
    g, err := a.resolve(ctx, req.Meta)
    if err != nil { return nil, err }
    out, err := a.mgr.PlayMove(ctx, g.ID, req.Meta.Sender, req.Move)
    if err != nil { return nil, err }
    return &chessdto.SubmitMoveResponse{Summary: ToDTOMoveSummary(out)}, nil
}

func (a *Adapter) Resign(ctx context.Context, req chessdto.ResignRequest) (*chessdto.ResignResponse, error) {
    g, err := a.resolve(ctx, req.Meta)
    if err != nil { return nil, err }
    done, err := a.mgr.Resign(ctx, g.ID, req.Meta.Sender)
    if err != nil { return nil, err }
    return &chessdto.ResignResponse{State: ToDTOState(done), Text: a.mgr.OutcomeText(done)}, nil
}

func (a *Adapter) History(ctx context.Context, req chessdto.HistoryRequest) (*chessdto.HistoryResponse, error) {
    limit := req.Limit
    if limit <= 0 { limit = a.historyLimit }
    games, err := a.mgr.History(ctx, req.Meta.Sender, limit)
    if err != nil { return nil, err }
    return &chessdto.HistoryResponse{Games: ToDTOGames(games), Record: ToDTORecord(req.Meta.Sender, games)}, nil
}

func (a *Adapter) resolve(ctx context.Context, meta chessdto.RequestMeta) (*session.Game, error) {
    if id := strings.TrimSpace(meta.GameID); id != "" {
        return a.mgr.Load(ctx, id)
    }
    g, err := a.mgr.ActiveGameForPlayer(ctx, meta.Sender)
    if errors.Is(err, session.ErrGameNotFound) { return nil, ErrNoGame }
    return g, err
}

func ToDTOState(g *session.Game) *chessdto.GameState {
    if g == nil {
        return nil
    }
    st := &chessdto.GameState{
        GameID:    g.ID,
        FEN:       g.FEN,
        Turn:      string(g.Turn),
        Status:    string(g.Status),
        Check:     g.Check,
        White:     chessdto.Player{ID: g.WhiteID, Name: g.WhiteName},
        Black:     chessdto.Player{ID: g.BlackID, Name: g.BlackName},
        MovesSAN:  append([]string(nil), g.MovesSAN...),
        MovesUCI:  append([]string(nil), g.MovesUCI...),
        MoveCount: len(g.MovesUCI),
        Outcome:   g.Outcome,
        Method:    g.Method,
        Winner:    g.Winner,
        Finished:  !g.Active(),
    }
    st.Material, st.Captured = computeMaterial(g)
    return st
}

func ToDTOMoveSummary(out *session.MoveOutcome) *chessdto.MoveSummary {
    if out == nil {
        return nil
    }
    res := out.Result
    sum := &chessdto.MoveSummary{
        State:     ToDTOState(out.Game),
        UCI:       res.Move.String(),
        SAN:       res.SAN,
        Piece:     pieceToken(res.Piece.Type),
        Castle:    res.Castle,
        EnPassant: res.EnPassant,
        Check:     res.Check,
        Finished:  res.Status.Terminal(),
        Text:      out.Text,
    }
    if !res.Captured.Empty() {
        sum.Captured = pieceToken(res.Captured.Type)
    }
    if res.Move.Promotion != chess.NoPieceType {
        sum.Promotion = pieceToken(res.Move.Promotion)
    }
    return sum
}

func ToDTOGames(list []*domain.ArchivedGame) []*chessdto.ChessGame {
    out := make([]*chessdto.ChessGame, 0, len(list))
    for _, g := range list {
        if g == nil {
            continue
        }
        out = append(out, &chessdto.ChessGame{
            GameID:       g.GameID,
            White:        chessdto.Player{ID: g.WhiteID, Name: g.WhiteName},
            Black:        chessdto.Player{ID: g.BlackID, Name: g.BlackName},
            Result:       g.Result,
            ResultMethod: g.ResultMethod,
            MovesUCI:     append([]string(nil), g.MovesUCI...),
            MovesSAN:     append([]string(nil), g.MovesSAN...),
            PGN:          g.PGN,
            StartedAt:    g.StartedAt,
            EndedAt:      g.EndedAt,
            Duration:     g.Duration,
        })
    }
    return out
}

// ToDTORecord tallies results over list, which is expected newest first.
func ToDTORecord(playerID string, list []*domain.ArchivedGame) *chessdto.PlayerRecord {
    rec := &chessdto.PlayerRecord{PlayerID: playerID}
    for _, g := range list {
        r := g.ResultFor(playerID)
        switch r {
        case "win":
            rec.Wins++
        case "loss":
            rec.Losses++
        case "draw":
            rec.Draws++
        default:
            continue
        }
        rec.GamesPlayed++
        switch {
        case rec.StreakType == "":
            rec.StreakType, rec.Streak = r, 1
        case rec.StreakType == r && rec.Streak == rec.GamesPlayed-1:
            rec.Streak++
        }
    }
    return rec
}

var pieceValues = [...]int{chess.Pawn: 1, chess.Knight: 3, chess.Bishop: 3, chess.Rook: 5, chess.Queen: 9}

// computeMaterial replays the game to list captures in order and sums the
// material left on the board.
func computeMaterial(g *session.Game) (chessdto.MaterialScore, chessdto.CapturedPieces) {
    var (
        score    chessdto.MaterialScore
        captured chessdto.CapturedPieces
    )
    st, err := g.ReplayEach(func(res chess.Result) {
        if res.Captured.Empty() {
            return
        }
        if res.Piece.Color == chess.White {
            captured.White = append(captured.White, pieceToken(res.Captured.Type))
        } else {
            captured.Black = append(captured.Black, pieceToken(res.Captured.Type))
        }
    })
    if err != nil {
        return chessdto.MaterialScore{}, chessdto.CapturedPieces{}
    }
    for row := 0; row < 8; row++ {
        for col := 0; col < 8; col++ {
            p, ok := st.Board.Get(chess.NewSquare(row, col))
            if !ok || p.Type == chess.King {
                continue
            }
            if p.Color == chess.White {
                score.White += pieceValues[p.Type]
            } else {
                score.Black += pieceValues[p.Type]
            }
        }
    }
    return score, captured
}

func pieceToken(pt chess.PieceType) string {
    if pt == chess.NoPieceType {
        return ""
    }
    return pt.String()
}
