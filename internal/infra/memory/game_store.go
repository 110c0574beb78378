package memory

import (
	"sync"

	"own-game-service/internal/app"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*app.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*app.Game),
	}
}

func (s *GameStore) GetOrCreate(boardID string, create func() *app.Game) *app.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[boardID]; ok {
		return game
	}
	game := create()
	s.games[boardID] = game
	return game
}

func (s *GameStore) Get(boardID string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[boardID]
	return game, ok
}

func (s *GameStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}

func (s *GameStore) Delete(boardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, boardID)
}
