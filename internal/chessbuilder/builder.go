package chessbuilder

import (
    "errors"
    "fmt"
    "strings"

    "github.com/park285/cheese-chess/internal/adapter/chesspresenter"
    "github.com/park285/cheese-chess/internal/config"
    "github.com/park285/cheese-chess/internal/msgcat"
    "github.com/park285/cheese-chess/internal/session"
    "go.uber.org/zap"
)

type Deps struct {
    Manager   *session.Manager
    Adapter   *chesspresenter.Adapter
    Formatter *chesspresenter.Formatter
    Store     session.Store
    Archive   session.Archive
}

// Close releases the store and archive.
func (d *Deps) Close() error {
    if d == nil || d.Manager == nil { return nil }
    return d.Manager.Close()
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
    if cfg == nil {
        return nil, fmt.Errorf("nil config")
    }
    if logger == nil {
        logger = zap.NewNop()
    }

    catalog, err := msgcat.New(cfg.MessagesDir)
    if err != nil {
        return nil, fmt.Errorf("load messages: %w", err)
    }

    store, err := newStore(cfg)
    if err != nil {
        return nil, err
    }

    // Archive (Postgres optional)
    var archive session.Archive
    if strings.TrimSpace(cfg.DatabaseURL) != "" {
        pg, err := session.NewPostgresArchive(cfg.DatabaseURL)
        if err != nil {
            return nil, errors.Join(fmt.Errorf("init archive: %w", err), store.Close())
        }
        archive = pg
    } else {
        archive = session.NewMemoryArchive()
    }

    mgr := session.NewManager(store, catalog)
    mgr.AttachArchive(archive)

    logger.Info("chess_deps_ready",
        zap.String("store", cfg.StoreBackend),
        zap.Bool("postgres_archive", strings.TrimSpace(cfg.DatabaseURL) != ""),
        zap.Duration("session_ttl", cfg.SessionTTL()))

    return &Deps{
        Manager:   mgr,
        Adapter:   chesspresenter.NewAdapter(mgr, cfg.HistoryLimit),
        Formatter: chesspresenter.NewFormatter(chesspresenter.StaticPrefix(""), catalog),
        Store:     store,
        Archive:   archive,
    }, nil
}

func newStore(cfg *config.AppConfig) (session.Store, error) {
    switch cfg.StoreBackend {
    case config.BackendRedis:
        s, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL())
        if err != nil { return nil, fmt.Errorf("init redis store: %w", err) }
        return s, nil
    case config.BackendBadger:
        s, err := session.NewBadgerStore(cfg.BadgerDir, cfg.SessionTTL())
        if err != nil { return nil, fmt.Errorf("init badger store: %w", err) }
        return s, nil
    case config.BackendMemory, "":
        return session.NewMemoryStore(), nil
    default:
        return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
    }
}
