package app

import (
	"context"
	"fmt"

	"own-game-service/internal/domain"
)

// GameRepository abstracts where running games are kept (in-memory, Redis, etc).
type GameRepository interface {
	GetOrCreate(boardID string, create func() *Game) *Game
	Get(boardID string) (*Game, bool)
	Delete(boardID string)
	IDs() []string
}

// BoardRepository loads board content (from cache/backing store).
type BoardRepository interface {
	GetBoard(ctx context.Context, boardID string) (domain.Board, error)
}

// GameService hosts one game per board.
type GameService struct {
	games  GameRepository
	boards BoardRepository
	opts   GameOptions
	roster []string
}

// NewGameService wires the repositories. Every new game is pre-seeded with
// roster.
func NewGameService(games GameRepository, boards BoardRepository, opts GameOptions, roster []string) *GameService {
	return &GameService{games: games, boards: boards, opts: opts, roster: roster}
}

// Open returns the running game for boardID, starting it if needed.
func (s *GameService) Open(ctx context.Context, boardID string) (*Game, error) {
	if game, ok := s.games.Get(boardID); ok {
		return game, nil
	}

	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, fmt.Errorf("open board %s: %w", boardID, err)
	}

	return s.games.GetOrCreate(boardID, func() *Game {
		game := NewGame(board, s.opts)
		for _, name := range s.roster {
			game.AddPlayer(name)
		}
		return game
	}), nil
}

// Get returns a game that was already opened.
func (s *GameService) Get(boardID string) (*Game, error) {
	game, ok := s.games.Get(boardID)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

// Close stops the game for boardID and forgets it.
func (s *GameService) Close(boardID string) {
	if game, ok := s.games.Get(boardID); ok {
		game.Close()
	}
	s.games.Delete(boardID)
}

// CloseAll stops every running game.
func (s *GameService) CloseAll() {
	for _, boardID := range s.games.IDs() {
		s.Close(boardID)
	}
}
