package main

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "log"
    "os"
    "strconv"
    "strings"

    petname "github.com/dustinkirkland/golang-petname"
    "github.com/fatih/color"
    "github.com/park285/cheese-chess/internal/adapter/chesspresenter"
    "github.com/park285/cheese-chess/internal/chessbuilder"
    appcfg "github.com/park285/cheese-chess/internal/config"
    "github.com/park285/cheese-chess/internal/obslog"
    "github.com/park285/cheese-chess/pkg/chessdto"
    "go.uber.org/zap"
)

const room = "cli"

func main() {
    if err := obslog.InitFromEnv(); err != nil {
        log.Fatalf("logger error: %v", err)
    }
    defer func() { _ = obslog.L().Sync() }()

    cfg, err := appcfg.Load()
    if err != nil {
        log.Fatalf("config error: %v", err)
    }

    deps, err := chessbuilder.New(cfg, obslog.L())
    if err != nil {
        log.Fatalf("chess init error: %v", err)
    }
    defer func() {
        if err := deps.Close(); err != nil {
            obslog.L().Warn("chess_close_error", zap.Error(err))
        }
    }()

    c := newCLI(deps, color.Output, cfg.HistoryLimit)
    c.run(context.Background(), os.Stdin)
}

type cli struct {
    adapter   *chesspresenter.Adapter
    formatter *chesspresenter.Formatter
    presenter *chesspresenter.Presenter
    alert     *chesspresenter.Presenter
    out       io.Writer

    historyLimit int
    gameID       string
    lastPlayer   string
}

func newCLI(deps *chessbuilder.Deps, out io.Writer, historyLimit int) *cli {
    board := color.New(color.FgCyan)
    warn := color.New(color.FgRed)
    plain := func(_, message string) error { _, err := fmt.Fprintln(out, message); return err }
    c := &cli{
        adapter:      deps.Adapter,
        formatter:    deps.Formatter,
        out:          out,
        historyLimit: historyLimit,
    }
    c.presenter = chesspresenter.NewPresenter(deps.Formatter, plain,
        func(_, text string) error { _, err := board.Fprintln(out, text); return err })
    c.alert = chesspresenter.NewPresenter(deps.Formatter,
        func(_, message string) error { _, err := warn.Fprintln(out, message); return err }, nil)
    return c
}

func (c *cli) run(ctx context.Context, in io.Reader) {
    _ = c.presenter.Message(room, c.formatter.Help())
    scanner := bufio.NewScanner(in)
    for {
        fmt.Fprint(c.out, "> ")
        if !scanner.Scan() {
            break
        }
        if !c.handle(ctx, scanner.Text()) {
            break
        }
    }
    if err := scanner.Err(); err != nil {
        obslog.L().Error("stdin_read_error", zap.Error(err))
    }
}

// handle runs one command line and reports whether the loop should continue.
func (c *cli) handle(ctx context.Context, line string) bool {
    parts := strings.Fields(line)
    if len(parts) == 0 {
        return true
    }
    cmd := strings.ToLower(parts[0])
    args := parts[1:]

    switch cmd {
    case "quit", "exit":
        return false
    case "help":
        _ = c.presenter.Message(room, c.formatter.Help())
    case "new":
        c.handleNew(ctx, args)
    case "status":
        state, err := c.current(ctx)
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        _ = c.presenter.Message(room, c.formatter.Status(state))
    case "fen":
        state, err := c.current(ctx)
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        _ = c.presenter.Message(room, state.FEN)
    case "moves":
        if len(args) < 1 { _ = c.alert.Message(room, "Usage: moves <square>"); return true }
        meta, err := c.meta(ctx)
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        resp, err := c.adapter.LegalMoves(ctx, chessdto.LegalMovesRequest{Meta: meta, Square: args[0]})
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        _ = c.presenter.Message(room, c.formatter.LegalMoves(resp))
    case "move":
        if len(args) < 1 { _ = c.alert.Message(room, "Usage: move <uci>"); return true }
        c.handleMove(ctx, args[0])
    case "resign":
        meta, err := c.meta(ctx)
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        resp, err := c.adapter.Resign(ctx, chessdto.ResignRequest{Meta: meta})
        if err != nil { _ = c.alert.Rejection(room, err); return true }
        _ = c.presenter.Message(room, color.GreenString(c.formatter.Resign(resp)))
    case "history":
        limit := c.historyLimit
        if len(args) >= 1 {
            if n, err := strconv.Atoi(args[0]); err == nil && n > 0 { limit = n }
        }
        c.handleHistory(ctx, limit, false)
    case "pgn":
        c.handleHistory(ctx, 1, true)
    default:
        // Treat as a move
        c.handleMove(ctx, parts[0])
    }
    return true
}

func (c *cli) handleNew(ctx context.Context, args []string) {
    white, black := petname.Generate(2, "-"), petname.Generate(2, "-")
    if len(args) >= 1 { white = args[0] }
    if len(args) >= 2 { black = args[1] }
    fen := ""
    if len(args) >= 3 { fen = strings.Join(args[2:], " ") }

    resp, err := c.adapter.Start(ctx, chessdto.StartRequest{
        Meta:         chessdto.RequestMeta{Sender: playerID(white)},
        OpponentID:   playerID(black),
        SenderName:   white,
        OpponentName: black,
        Color:        "white",
        FEN:          fen,
    })
    if err != nil {
        _ = c.alert.Rejection(room, err)
        return
    }
    c.gameID = resp.State.GameID
    c.lastPlayer = playerID(white)
    _ = c.presenter.Board(room, c.formatter.Start(resp), resp.State)
}

func (c *cli) handleMove(ctx context.Context, move string) {
    meta, err := c.meta(ctx)
    if err != nil {
        _ = c.alert.Rejection(room, err)
        return
    }
    resp, err := c.adapter.SubmitMove(ctx, chessdto.SubmitMoveRequest{Meta: meta, Move: move})
    if err != nil {
        _ = c.alert.Rejection(room, err)
        return
    }
    sum := resp.Summary
    text := c.formatter.Move(sum)
    if sum.Finished {
        text = color.GreenString(text)
    }
    // Always draw board even if not finished
    _ = c.presenter.Board(room, text, sum.State)
}

func (c *cli) handleHistory(ctx context.Context, limit int, pgnOnly bool) {
    sender := c.lastPlayer
    if meta, err := c.meta(ctx); err == nil {
        sender = meta.Sender
    }
    if sender == "" {
        _ = c.alert.Message(room, "No player yet. Start a game with `new`.")
        return
    }
    resp, err := c.adapter.History(ctx, chessdto.HistoryRequest{Meta: chessdto.RequestMeta{Sender: sender}, Limit: limit})
    if err != nil {
        _ = c.alert.Rejection(room, err)
        return
    }
    if pgnOnly {
        if len(resp.Games) == 0 {
            _ = c.presenter.Message(room, c.formatter.History(resp))
            return
        }
        _ = c.presenter.Message(room, c.formatter.Game(resp.Games[0]))
        return
    }
    _ = c.presenter.Message(room, c.formatter.History(resp))
}

func (c *cli) current(ctx context.Context) (*chessdto.GameState, error) {
    if c.gameID == "" {
        return nil, chesspresenter.ErrNoGame
    }
    resp, err := c.adapter.Status(ctx, chessdto.StatusRequest{Meta: chessdto.RequestMeta{GameID: c.gameID}})
    if err != nil {
        return nil, err
    }
    return resp.State, nil
}

// meta acts for the player whose turn it is.
func (c *cli) meta(ctx context.Context) (chessdto.RequestMeta, error) {
    state, err := c.current(ctx)
    if err != nil {
        return chessdto.RequestMeta{}, err
    }
    sender := state.White.ID
    if state.Turn == "black" {
        sender = state.Black.ID
    }
    if state.Finished && c.lastPlayer != "" {
        sender = c.lastPlayer
    }
    c.lastPlayer = sender
    return chessdto.RequestMeta{GameID: c.gameID, Sender: sender}, nil
}

func playerID(name string) string {
    return "player:" + strings.ToLower(strings.TrimSpace(name))
}
