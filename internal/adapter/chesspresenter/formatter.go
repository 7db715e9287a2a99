package chesspresenter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-chess/internal/chess"
	"github.com/park285/cheese-chess/internal/msgcat"
	"github.com/park285/cheese-chess/internal/util"
	"github.com/park285/cheese-chess/pkg/chessdto"
)

const (
	chessHistoryInstruction = "# Recent games"
	chessHelpInstruction    = "# Chess commands"

	materialScoreNeutral = 39
	capturedRecentLimit  = 3
	recentMovesLimit     = 6
	shortTimeLayout      = "2006-01-02 15:04"
)

// PrefixProvider exposes the prefix command hints should carry.
type PrefixProvider interface {
	Prefix() string
}

// StaticPrefix is a PrefixProvider with a fixed value.
type StaticPrefix string

func (p StaticPrefix) Prefix() string { return string(p) }

// Formatter renders chess DTOs into plain text blocks.
type Formatter struct {
	prefixProvider PrefixProvider
	catalog        *msgcat.Catalog
}

func NewFormatter(provider PrefixProvider, catalog *msgcat.Catalog) *Formatter {
	return &Formatter{prefixProvider: provider, catalog: catalog}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) Start(resp *chessdto.StartResponse) string {
	if resp == nil || resp.State == nil {
		return fmt.Sprintf("Could not start a game. Try `%snew` again.", f.Prefix())
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(resp.Text))
	sb.WriteString("\n")
	sb.WriteString(f.turnLine(resp.State))
	sb.WriteString(fmt.Sprintf("\n\nMove with `%smove <uci>` (e.g. e2e4, e7e8q).", f.Prefix()))
	return sb.String()
}

// Board draws the position from White's side with rank 8 on top.
func (f *Formatter) Board(state *chessdto.GameState) string {
	if state == nil {
		return ""
	}
	st, err := chess.ParseFEN(state.FEN)
	if err != nil {
		return state.FEN
	}
	var sb strings.Builder
	sb.WriteString("  +-----------------+\n")
	for row := 7; row >= 0; row-- {
		sb.WriteString(fmt.Sprintf("%d |", row+1))
		for col := 0; col < 8; col++ {
			sb.WriteByte(' ')
			if p, ok := st.Board.Get(chess.NewSquare(row, col)); ok {
				sb.WriteString(p.String())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("  +-----------------+\n")
	sb.WriteString("    a b c d e f g h")
	return sb.String()
}

func (f *Formatter) Status(state *chessdto.GameState) string {
	if state == nil {
		return f.NoGame()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game %s: %s (white) vs %s (black)\n", state.GameID, state.White.Name, state.Black.Name))
	sb.WriteString(f.Board(state))
	sb.WriteString("\n")
	if state.Finished {
		sb.WriteString(fmt.Sprintf("- Finished: %s\n", outcomeLabel(state.Outcome, state.Method)))
	} else {
		sb.WriteString("- ")
		sb.WriteString(f.turnLine(state))
		sb.WriteString("\n")
		if state.Check {
			sb.WriteString("- In check\n")
		}
	}
	sb.WriteString(fmt.Sprintf("- Moves played: %d\n", state.MoveCount))
	if len(state.MovesSAN) > 0 {
		sb.WriteString(fmt.Sprintf("- Recent: %s\n", formatRecentMoves(state.MovesSAN)))
	}
	appendMaterialLine(&sb, state.Material)
	appendCapturedLine(&sb, state.Captured)
	sb.WriteString("FEN: ")
	sb.WriteString(state.FEN)
	return sb.String()
}

func (f *Formatter) LegalMoves(resp *chessdto.LegalMovesResponse) string {
	if resp == nil {
		return ""
	}
	if len(resp.Targets) == 0 {
		return fmt.Sprintf("No legal moves from %s.", resp.Square)
	}
	return fmt.Sprintf("Legal targets from %s: %s", resp.Square, strings.Join(resp.Targets, " "))
}

func (f *Formatter) Move(summary *chessdto.MoveSummary) string {
	if summary == nil || summary.State == nil {
		return ""
	}
	var sb strings.Builder
	if text := strings.TrimSpace(summary.Text); text != "" {
		sb.WriteString(text)
	} else {
		sb.WriteString(summary.SAN)
	}
	if notes := moveNotes(summary); notes != "" {
		sb.WriteString("\n- ")
		sb.WriteString(notes)
	}
	if !summary.Finished {
		sb.WriteString("\n")
		sb.WriteString(f.turnLine(summary.State))
	}
	return sb.String()
}

// Rejection explains why a request was refused.
func (f *Formatter) Rejection(err error) string {
	if err == nil {
		return ""
	}
	var de *chessdto.DomainError
	if errors.As(err, &de) {
		if de.Retryable {
			return de.Error() + " Please try again."
		}
		return de.Error()
	}
	if errors.Is(err, ErrNoGame) {
		return f.NoGame()
	}
	return "Error: " + err.Error()
}

func (f *Formatter) Resign(resp *chessdto.ResignResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Game resigned.\n")
	if text := strings.TrimSpace(resp.Text); text != "" {
		sb.WriteString(text)
	} else if resp.State != nil {
		sb.WriteString(outcomeLabel(resp.State.Outcome, resp.State.Method))
	}
	return sb.String()
}

func (f *Formatter) Help() string {
	p := f.Prefix()
	return fmt.Sprintf(`%s
- %snew [white] [black] [fen]
  start a game; names default to generated ones
- %smoves <square> (e.g. e2)
  list legal targets for the piece on a square
- %smove <uci> (e.g. e2e4, e7e8q)
  play a move for the side to move
- %sresign
  the side to move resigns
- %sstatus / %sfen
  board, material and position
- %shistory [n]
  finished games of the side to move (default 10)
- %squit`, chessHelpInstruction, p, p, p, p, p, p, p, p)
}

func (f *Formatter) History(resp *chessdto.HistoryResponse) string {
	if resp == nil || len(resp.Games) == 0 {
		return "No finished games yet."
	}
	var sb strings.Builder
	sb.WriteString(chessHistoryInstruction)
	sb.WriteByte('\n')
	if rec := resp.Record; rec != nil {
		sb.WriteString(fmt.Sprintf("Record: %dW %dL %dD (%d games)", rec.Wins, rec.Losses, rec.Draws, rec.GamesPlayed))
		if rec.Streak > 1 {
			sb.WriteString(fmt.Sprintf(", %d %s streak", rec.Streak, rec.StreakType))
		}
		sb.WriteString("\n")
	}
	for _, game := range resp.Games {
		movesCount := len(game.MovesSAN)
		if movesCount == 0 {
			movesCount = len(game.MovesUCI)
		}
		sb.WriteString(fmt.Sprintf("- %s %s %s vs %s, %s (%d moves)\n",
			util.FormatShortTime(game.EndedAt, shortTimeLayout), game.Result,
			game.White.Name, game.Black.Name, formatMethod(game.ResultMethod), movesCount))
		if d := formatGameDuration(game.Duration); d != "" {
			sb.WriteString(fmt.Sprintf("  took %s\n", d))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Game shows one archived game with its PGN.
func (f *Formatter) Game(game *chessdto.ChessGame) string {
	if game == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Game %s: %s\n", game.GameID, game.Result))
	if !game.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- Started: %s\n", util.FormatShortTime(game.StartedAt, shortTimeLayout)))
	}
	if !game.EndedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- Ended: %s\n", util.FormatShortTime(game.EndedAt, shortTimeLayout)))
	}
	if game.PGN != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(game.PGN))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) NoGame() string {
	fallback := fmt.Sprintf("No game in progress. Start one with `%snew`.", f.Prefix())
	if f == nil {
		return fallback
	}
	return f.catalog.Text("game.no_game", nil, fallback)
}

func (f *Formatter) turnLine(state *chessdto.GameState) string {
	name := state.White.Name
	if state.Turn == "black" {
		name = state.Black.Name
	}
	var catalog *msgcat.Catalog
	if f != nil {
		catalog = f.catalog
	}
	return catalog.Text("game.turn", map[string]any{"Player": name, "Color": state.Turn},
		fmt.Sprintf("%s to move (%s).", name, state.Turn))
}

func moveNotes(s *chessdto.MoveSummary) string {
	var notes []string
	switch {
	case s.Castle:
		notes = append(notes, "castling")
	case s.EnPassant:
		notes = append(notes, "en passant")
	case s.Captured != "":
		notes = append(notes, "takes "+s.Captured)
	}
	if s.Promotion != "" {
		notes = append(notes, "promotes to "+s.Promotion)
	}
	return strings.Join(notes, ", ")
}

func outcomeLabel(outcome, method string) string {
	m := formatMethod(method)
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "white":
		return "white wins by " + m
	case "black":
		return "black wins by " + m
	case "draw":
		return "draw by " + m
	default:
		return "game over"
	}
}

func formatMethod(method string) string {
	if strings.TrimSpace(method) == "" {
		return "-"
	}
	return strings.ReplaceAll(method, "_", " ")
}

func formatRecentMoves(moves []string) string {
	if len(moves) == 0 {
		return "-"
	}
	if len(moves) <= recentMovesLimit {
		return strings.Join(moves, " ")
	}
	return "... " + strings.Join(moves[len(moves)-recentMovesLimit:], " ")
}

func formatGameDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func appendMaterialLine(sb *strings.Builder, material chessdto.MaterialScore) {
	sb.WriteString("- Material captured: ")
	sb.WriteString(formatMaterial(material))
	sb.WriteString("\n")
}

func appendCapturedLine(sb *strings.Builder, captured chessdto.CapturedPieces) {
	formatted := formatCaptured(captured)
	if formatted == "" {
		return
	}
	sb.WriteString("- Last captures: ")
	sb.WriteString(formatted)
	sb.WriteString("\n")
}

// formatMaterial reports what each side has won relative to a full set.
func formatMaterial(score chessdto.MaterialScore) string {
	whiteCaptured := materialScoreNeutral - score.Black
	blackCaptured := materialScoreNeutral - score.White
	if whiteCaptured < 0 {
		whiteCaptured = 0
	}
	if blackCaptured < 0 {
		blackCaptured = 0
	}

	var parts []string
	if whiteCaptured > 0 {
		parts = append(parts, fmt.Sprintf("white +%d", whiteCaptured))
	}
	if blackCaptured > 0 {
		parts = append(parts, fmt.Sprintf("black +%d", blackCaptured))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " / ")
}

func formatCaptured(captured chessdto.CapturedPieces) string {
	white := formatCapturedSequence(recentPieces(captured.White, capturedRecentLimit))
	black := formatCapturedSequence(recentPieces(captured.Black, capturedRecentLimit))
	if white == "" && black == "" {
		return ""
	}
	var parts []string
	if white != "" {
		parts = append(parts, "white "+white)
	}
	if black != "" {
		parts = append(parts, "black "+black)
	}
	return strings.Join(parts, " / ")
}

func formatCapturedSequence(order []string) string {
	tokens := make([]string, 0, len(order))
	for _, token := range order {
		if symbol := capturedSymbol(token); symbol != "" {
			tokens = append(tokens, symbol)
		}
	}
	return strings.Join(tokens, " ")
}

func capturedSymbol(piece string) string {
	switch strings.ToLower(strings.TrimSpace(piece)) {
	case "queen":
		return "Q"
	case "rook":
		return "R"
	case "bishop":
		return "B"
	case "knight":
		return "N"
	case "pawn":
		return "P"
	default:
		return ""
	}
}

// recentPieces returns the last limit entries, newest first.
func recentPieces(order []string, limit int) []string {
	if len(order) == 0 || limit <= 0 {
		return nil
	}
	if len(order) > limit {
		order = order[len(order)-limit:]
	}
	result := make([]string, len(order))
	for i := range order {
		result[i] = order[len(order)-1-i]
	}
	return result
}
