package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"own-game-service/internal/domain"
)

// BoardLoader loads board JSONB from Postgres.
type BoardLoader struct {
	pool *pgxpool.Pool
}

func NewBoardLoader(pool *pgxpool.Pool) *BoardLoader {
	return &BoardLoader{pool: pool}
}

func (l *BoardLoader) LoadBoard(ctx context.Context, boardID string) (domain.Board, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM boards WHERE id=$1`, boardID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Board{}, domain.ErrBoardNotFound
	}
	if err != nil {
		return domain.Board{}, fmt.Errorf("load board: %w", err)
	}
	var board domain.Board
	if err := json.Unmarshal(raw, &board); err != nil {
		return domain.Board{}, fmt.Errorf("unmarshal board: %w", err)
	}
	board.ID = boardID
	return board, nil
}

// SaveBoard upserts a board so it can be loaded later.
func (l *BoardLoader) SaveBoard(ctx context.Context, board domain.Board) error {
	if err := board.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO boards (id, data) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		board.ID, string(data))
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}
