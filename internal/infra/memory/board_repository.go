package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"own-game-service/internal/domain"
)

// BoardLoader fetches board content from a backing store (YAML file, Postgres).
type BoardLoader interface {
	LoadBoard(ctx context.Context, boardID string) (domain.Board, error)
}

// BoardRepository caches boards with TTL to avoid repeated loads.
type BoardRepository struct {
	loader BoardLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBoard
}

type cachedBoard struct {
	board     domain.Board
	expiresAt time.Time
}

func NewBoardRepository(loader BoardLoader, ttl time.Duration) *BoardRepository {
	return &BoardRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBoard),
	}
}

// GetBoard returns a private copy of the cached board, loading it on miss.
func (r *BoardRepository) GetBoard(ctx context.Context, boardID string) (domain.Board, error) {
	if board, ok := r.cached(boardID); ok {
		return board.Clone(), nil
	}

	result, err, _ := r.sf.Do(boardID, func() (interface{}, error) {
		if board, ok := r.cached(boardID); ok {
			return board, nil
		}

		board, err := r.loader.LoadBoard(ctx, boardID)
		if err != nil {
			return domain.Board{}, err
		}

		r.mu.Lock()
		r.cache[boardID] = cachedBoard{
			board:     board,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return board, nil
	})
	if err != nil {
		return domain.Board{}, err
	}
	return result.(domain.Board).Clone(), nil
}

func (r *BoardRepository) cached(boardID string) (domain.Board, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[boardID]; ok && entry.expiresAt.After(now) {
		return entry.board, true
	}
	return domain.Board{}, false
}

func (r *BoardRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBoardLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticBoardLoader struct {
	boards map[string]domain.Board
}

func NewStaticBoardLoader(boards ...domain.Board) *StaticBoardLoader {
	m := make(map[string]domain.Board, len(boards))
	for _, b := range boards {
		m[b.ID] = b
	}
	return &StaticBoardLoader{boards: m}
}

func (l *StaticBoardLoader) LoadBoard(_ context.Context, boardID string) (domain.Board, error) {
	if board, ok := l.boards[boardID]; ok {
		return board.Clone(), nil
	}
	return domain.Board{}, domain.ErrBoardNotFound
}
