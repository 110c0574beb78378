package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"own-game-service/internal/domain"
)

func TestBoardRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BoardLoader: NewStaticBoardLoader(sampleBoard())}
	repo := NewBoardRepository(loader, time.Minute)

	if _, err := repo.GetBoard(context.Background(), "board-1"); err != nil {
		t.Fatalf("get board: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBoard(context.Background(), "board-1"); err != nil {
		t.Fatalf("get board 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBoardRepositoryReturnsCopies(t *testing.T) {
	repo := NewBoardRepository(NewStaticBoardLoader(sampleBoard()), time.Minute)

	first, err := repo.GetBoard(context.Background(), "board-1")
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	first.Rounds[0].Topics[0].Questions[0].Used = true

	second, err := repo.GetBoard(context.Background(), "board-1")
	if err != nil {
		t.Fatalf("get board 2: %v", err)
	}
	if second.Rounds[0].Topics[0].Questions[0].Used {
		t.Fatalf("cached board was mutated through a returned copy")
	}
}

func TestBoardRepositoryExpires(t *testing.T) {
	loader := &countingLoader{BoardLoader: NewStaticBoardLoader(sampleBoard())}
	repo := NewBoardRepository(loader, time.Minute)
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBoard(context.Background(), "board-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBoard(context.Background(), "board-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestBoardRepositoryNotFound(t *testing.T) {
	repo := NewBoardRepository(NewStaticBoardLoader(), time.Minute)
	if _, err := repo.GetBoard(context.Background(), "missing"); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

type countingLoader struct {
	BoardLoader
	calls int
}

func (l *countingLoader) LoadBoard(ctx context.Context, boardID string) (domain.Board, error) {
	l.calls++
	return l.BoardLoader.LoadBoard(ctx, boardID)
}

func sampleBoard() domain.Board {
	return domain.Board{
		ID: "board-1",
		Rounds: []domain.Round{
			{
				Name: "Round 1",
				Topics: []domain.Topic{
					{Name: "Rivers", Questions: []domain.Question{
						{Prompt: "Longest river in Europe", Answer: "Volga", Value: 100},
					}},
				},
			},
		},
	}
}
