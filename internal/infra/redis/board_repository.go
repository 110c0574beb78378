package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"own-game-service/internal/domain"
)

// BoardLoader fetches board content from a backing store (YAML file, Postgres).
type BoardLoader interface {
	LoadBoard(ctx context.Context, boardID string) (domain.Board, error)
}

// BoardRepository caches boards in Redis as JSON and falls back to a loader on
// cache miss.
// Boards are stored as: SET board:{boardID} {json} EX ttl
type BoardRepository struct {
	client *redis.Client
	loader BoardLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewBoardRepository(client *redis.Client, loader BoardLoader, ttl time.Duration) *BoardRepository {
	return &BoardRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BoardRepository) GetBoard(ctx context.Context, boardID string) (domain.Board, error) {
	if board, ok := r.cached(ctx, boardID); ok {
		return board, nil
	}

	result, err, _ := r.sf.Do(boardID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if board, ok := r.cached(ctx, boardID); ok {
			return board, nil
		}

		board, err := r.loader.LoadBoard(ctx, boardID)
		if err != nil {
			return domain.Board{}, err
		}

		if data, err := json.Marshal(board); err == nil {
			_ = r.client.Set(ctx, r.key(boardID), data, r.ttlWithJitter()).Err()
		}
		return board, nil
	})
	if err != nil {
		return domain.Board{}, err
	}
	return result.(domain.Board).Clone(), nil
}

// Invalidate drops the cached copy so the next read hits the loader.
func (r *BoardRepository) Invalidate(ctx context.Context, boardID string) error {
	return r.client.Del(ctx, r.key(boardID)).Err()
}

func (r *BoardRepository) cached(ctx context.Context, boardID string) (domain.Board, bool) {
	raw, err := r.client.Get(ctx, r.key(boardID)).Bytes()
	if err != nil {
		return domain.Board{}, false
	}
	var board domain.Board
	if err := json.Unmarshal(raw, &board); err != nil {
		return domain.Board{}, false
	}
	return board, true
}

func (r *BoardRepository) key(boardID string) string {
	return "board:" + boardID
}

func (r *BoardRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
