package redis

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"own-game-service/internal/app"
	"own-game-service/internal/domain"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Notes:
//   - Games themselves live in a local map; Redis never owns game state.
//   - A liveness key marks each running game.
//   - The latest player view (ForPlayers) of each game is mirrored to Redis,
//     so other processes can read it without joining the game. Unrevealed
//     answers never reach Redis.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration

	mu      sync.RWMutex
	games   map[string]*app.Game
	mirrors map[string]func()
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client:  client,
		ttl:     ttl,
		games:   make(map[string]*app.Game),
		mirrors: make(map[string]func()),
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

	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(boardID), "1", s.ttl).Err()
	s.writeSnapshot(boardID, game.Snapshot())
	s.mirrors[boardID] = game.Subscribe(func(snap domain.Snapshot) {
		s.writeSnapshot(boardID, snap)
	})
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
	if cancel, ok := s.mirrors[boardID]; ok {
		cancel()
		delete(s.mirrors, boardID)
	}
	delete(s.games, boardID)
	_ = s.client.Del(context.Background(), s.key(boardID), s.snapshotKey(boardID)).Err()
}

// LatestSnapshot reads the mirrored player view for boardID.
func (s *GameStore) LatestSnapshot(ctx context.Context, boardID string) (domain.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.snapshotKey(boardID)).Bytes()
	if err == redis.Nil {
		return domain.Snapshot{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *GameStore) writeSnapshot(boardID string, snap domain.Snapshot) {
	data, err := json.Marshal(snap.ForPlayers())
	if err != nil {
		log.Printf("marshal snapshot %s: %v", boardID, err)
		return
	}
	ctx := context.Background()
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.snapshotKey(boardID), data, s.ttl)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(boardID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("mirror snapshot %s: %v", boardID, err)
	}
}

func (s *GameStore) key(boardID string) string {
	return "game:session:" + boardID
}

func (s *GameStore) snapshotKey(boardID string) string {
	return "game:snapshot:" + boardID
}
