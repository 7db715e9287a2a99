package session

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps games in process memory. It is meant for tests and
// local single-process runs.
type MemoryStore struct {
	mu     sync.RWMutex
	games  map[string]*Game
	byUser map[string][]string // userID -> game IDs, creation order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:  make(map[string]*Game),
		byUser: make(map[string][]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, g *Game) error {
	if g == nil || g.ID == "" {
		return fmt.Errorf("create: invalid game")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[g.ID]; exists {
		return fmt.Errorf("create %s: already exists", g.ID)
	}
	s.games[g.ID] = g.clone()
	for _, id := range participants(g) {
		s.byUser[id] = append(s.byUser[id], g.ID)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	cur := g.clone()
	if err := fn(cur); err != nil {
		return nil, err
	}
	s.games[id] = cur.clone()
	return cur, nil
}

func (s *MemoryStore) GamesByPlayer(_ context.Context, userID string) ([]*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	out := make([]*Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.games[id]; ok {
			out = append(out, g.clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
