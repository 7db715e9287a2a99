package session

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "strings"
    "time"

    _ "github.com/lib/pq"

    "github.com/park285/cheese-chess/internal/domain"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS chess_games (
    game_id       TEXT PRIMARY KEY,
    white_id      TEXT NOT NULL,
    white_name    TEXT NOT NULL,
    black_id      TEXT NOT NULL,
    black_name    TEXT NOT NULL,
    start_fen     TEXT NOT NULL,
    result        TEXT NOT NULL,
    result_method TEXT NOT NULL,
    moves_uci     TEXT NOT NULL,
    moves_san     TEXT NOT NULL,
    pgn           TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

// PostgresArchive persists finished games into the chess_games table.
type PostgresArchive struct {
    db *sql.DB
}

func NewPostgresArchive(databaseURL string) (*PostgresArchive, error) {
    if strings.TrimSpace(databaseURL) == "" {
        return nil, fmt.Errorf("DATABASE_URL is required")
    }
    db, err := sql.Open("postgres", databaseURL)
    if err != nil {
        return nil, err
    }
    db.SetMaxOpenConns(16)
    db.SetMaxIdleConns(8)
    db.SetConnMaxLifetime(30 * time.Minute)
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ping postgres: %w", err)
    }
    if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ensure schema: %w", err)
    }
    return &PostgresArchive{db: db}, nil
}

func (r *PostgresArchive) Close() error {
    if r == nil || r.db == nil { return nil }
    return r.db.Close()
}

// SaveResult upserts a finished game. Active games are ignored.
func (r *PostgresArchive) SaveResult(ctx context.Context, g *Game) error {
    rec := toArchived(g)
    if r == nil || r.db == nil || rec == nil {
        return nil
    }
    movesUCIRaw, _ := json.Marshal(rec.MovesUCI)
    movesSANRaw, _ := json.Marshal(rec.MovesSAN)

    q := `INSERT INTO chess_games (
        game_id, white_id, white_name, black_id, black_name, start_fen,
        result, result_method, moves_uci, moves_san, pgn,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
      ) ON CONFLICT (game_id) DO UPDATE SET
        white_id=EXCLUDED.white_id,
        white_name=EXCLUDED.white_name,
        black_id=EXCLUDED.black_id,
        black_name=EXCLUDED.black_name,
        start_fen=EXCLUDED.start_fen,
        result=EXCLUDED.result,
        result_method=EXCLUDED.result_method,
        moves_uci=EXCLUDED.moves_uci,
        moves_san=EXCLUDED.moves_san,
        pgn=EXCLUDED.pgn,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

    _, err := r.db.ExecContext(ctx, q,
        rec.GameID,
        rec.WhiteID, rec.WhiteName,
        rec.BlackID, rec.BlackName,
        rec.StartFEN,
        rec.Result, rec.ResultMethod, string(movesUCIRaw), string(movesSANRaw), rec.PGN,
        rec.StartedAt, rec.EndedAt, rec.Duration.Milliseconds(),
    )
    if err != nil { return fmt.Errorf("insert chess_games: %w", err) }
    return nil
}

// RecentGames returns the player's archived games, newest first.
func (r *PostgresArchive) RecentGames(ctx context.Context, playerID string, limit int) ([]*domain.ArchivedGame, error) {
    if limit <= 0 { limit = 10 }
    rows, err := r.db.QueryContext(ctx, `SELECT
        game_id, white_id, white_name, black_id, black_name, start_fen,
        result, result_method, moves_uci, moves_san, pgn,
        started_at, ended_at, duration_ms
      FROM chess_games
      WHERE white_id = $1 OR black_id = $1
      ORDER BY ended_at DESC, game_id DESC
      LIMIT $2`, playerID, limit)
    if err != nil { return nil, fmt.Errorf("query chess_games: %w", err) }
    defer rows.Close()

    var out []*domain.ArchivedGame
    for rows.Next() {
        var (
            g                domain.ArchivedGame
            movesUCI, movesSAN string
            durationMS       int64
        )
        if err := rows.Scan(
            &g.GameID, &g.WhiteID, &g.WhiteName, &g.BlackID, &g.BlackName, &g.StartFEN,
            &g.Result, &g.ResultMethod, &movesUCI, &movesSAN, &g.PGN,
            &g.StartedAt, &g.EndedAt, &durationMS,
        ); err != nil {
            return nil, err
        }
        _ = json.Unmarshal([]byte(movesUCI), &g.MovesUCI)
        _ = json.Unmarshal([]byte(movesSAN), &g.MovesSAN)
        g.Duration = time.Duration(durationMS) * time.Millisecond
        out = append(out, &g)
    }
    return out, rows.Err()
}
