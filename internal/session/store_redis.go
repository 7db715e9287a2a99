package session

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisStore keeps each game as a JSON blob with a TTL and indexes
// participants in per-user sets.
type RedisStore struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewRedisStore connects to redisURL (redis:// or rediss://) and pings it.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
    if strings.TrimSpace(redisURL) == "" {
        return nil, fmt.Errorf("REDIS_URL required for redis store")
    }
    opts, err := parseRedisURL(redisURL)
    if err != nil { return nil, err }
    rdb := redis.NewClient(opts)
    if err := rdb.Ping(context.Background()).Err(); err != nil {
        _ = rdb.Close()
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
    if s == nil || s.rdb == nil { return nil }
    return s.rdb.Close()
}

func (s *RedisStore) Create(ctx context.Context, g *Game) error {
    raw, err := json.Marshal(g)
    if err != nil { return err }
    ok, err := s.rdb.SetNX(ctx, gameKey(g.ID), raw, s.ttl).Result()
    if err != nil { return fmt.Errorf("redis set: %w", err) }
    if !ok { return fmt.Errorf("create %s: already exists", g.ID) }
    return s.indexParticipants(ctx, g)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Game, error) {
    raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
    if err == redis.Nil { return nil, ErrGameNotFound }
    if err != nil { return nil, fmt.Errorf("redis get: %w", err) }
    var g Game
    if err := json.Unmarshal(raw, &g); err != nil { return nil, err }
    return &g, nil
}

// Update uses WATCH on the game key; a write by another client between the
// read and EXEC aborts the transaction with ErrConflict.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Game) error) (*Game, error) {
    key := gameKey(id)
    var out *Game
    err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
        raw, err := tx.Get(ctx, key).Bytes()
        if err == redis.Nil { return ErrGameNotFound }
        if err != nil { return fmt.Errorf("redis get: %w", err) }
        var cur Game
        if err := json.Unmarshal(raw, &cur); err != nil { return err }
        if err := fn(&cur); err != nil { return err }
        newRaw, err := json.Marshal(&cur)
        if err != nil { return err }
        _, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
            pipe.Set(ctx, key, newRaw, s.ttl)
            return nil
        })
        if err != nil { return err }
        out = &cur
        return nil
    }, key)
    if errors.Is(err, redis.TxFailedErr) {
        return nil, ErrConflict
    }
    if err != nil { return nil, err }
    return out, nil
}

func (s *RedisStore) GamesByPlayer(ctx context.Context, userID string) ([]*Game, error) {
    ids, err := s.rdb.SMembers(ctx, idxUserKey(userID)).Result()
    if err != nil { return nil, fmt.Errorf("redis smembers: %w", err) }
    out := make([]*Game, 0, len(ids))
    for _, id := range ids {
        g, err := s.Get(ctx, id)
        if errors.Is(err, ErrGameNotFound) {
            // expired game, drop the stale index entry
            _ = s.rdb.SRem(ctx, idxUserKey(userID), id).Err()
            continue
        }
        if err != nil { return nil, err }
        out = append(out, g)
    }
    return out, nil
}

func (s *RedisStore) indexParticipants(ctx context.Context, g *Game) error {
    for _, userID := range participants(g) {
        key := idxUserKey(userID)
        if err := s.rdb.SAdd(ctx, key, g.ID).Err(); err != nil { return fmt.Errorf("redis sadd: %w", err) }
        // index lives as long as the newest game
        if s.ttl > 0 {
            _ = s.rdb.Expire(ctx, key, s.ttl).Err()
        }
    }
    return nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
    u, err := url.Parse(raw)
    if err != nil { return nil, err }
    if u.Scheme != "redis" && u.Scheme != "rediss" { return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme) }
    db := 0
    if p := strings.TrimPrefix(u.Path, "/"); p != "" { if n, err := strconv.Atoi(p); err == nil { db = n } }
    pass, _ := u.User.Password()
    return &redis.Options{Addr: u.Host, Username: u.User.Username(), Password: pass, DB: db}, nil
}
