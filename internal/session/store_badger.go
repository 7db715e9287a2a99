package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps games in an embedded Badger database. Participant
// indexes are empty-valued keys "chess:index:user:<user>:<game>".
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerStore opens (or creates) the database in dir. An empty dir
// opens an in-memory database.
func NewBadgerStore(dir string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if strings.TrimSpace(dir) == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

// Close closes the database
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BadgerStore) entry(key, val []byte) *badger.Entry {
	e := badger.NewEntry(key, val)
	if s.ttl > 0 {
		e = e.WithTTL(s.ttl)
	}
	return e
}

func (s *BadgerStore) Create(_ context.Context, g *Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gameKey(g.ID))
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("create %s: already exists", g.ID)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.SetEntry(s.entry(key, data)); err != nil {
			return err
		}
		for _, userID := range participants(g) {
			if err := txn.SetEntry(s.entry(badgerIndexKey(userID, g.ID), nil)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Get(_ context.Context, id string) (*Game, error) {
	var g *Game
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		g, err = readGame(txn, id)
		return err
	})
	return g, err
}

// Update runs fn inside a read-write transaction. Badger detects a
// concurrent commit touching the same key and fails with ErrConflict.
func (s *BadgerStore) Update(_ context.Context, id string, fn func(*Game) error) (*Game, error) {
	var out *Game
	err := s.db.Update(func(txn *badger.Txn) error {
		cur, err := readGame(txn, id)
		if err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}
		data, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		if err := txn.SetEntry(s.entry([]byte(gameKey(id)), data)); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) GamesByPlayer(_ context.Context, userID string) ([]*Game, error) {
	var out []*Game
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(idxUserKey(userID) + ":")
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			g, err := readGame(txn, id)
			if errors.Is(err, ErrGameNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, g)
		}
		return nil
	})
	return out, err
}

func readGame(txn *badger.Txn, id string) (*Game, error) {
	item, err := txn.Get([]byte(gameKey(id)))
	if err == badger.ErrKeyNotFound {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &g)
	}); err != nil {
		return nil, err
	}
	return &g, nil
}

func badgerIndexKey(userID, gameID string) []byte {
	return []byte(idxUserKey(userID) + ":" + gameID)
}
