package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"own-game-service/internal/domain"
)

const boardsYAML = `
boards:
  - id: march-8
    rounds:
      - name: Round 1
        topics:
          - name: Flowers
            questions:
              - prompt: Symbol of the holiday
                answer: Mimosa
                value: 100
              - prompt: Cat in the bag
                answer: Tulip
                value: 200
                wildcard: true
      - name: Final Round
        topics:
          - name: Final
            questions:
              - prompt: Final question
                answer: Final answer
                value: 1000
`

func TestLoadBoardFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	if err := os.WriteFile(path, []byte(boardsYAML), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	board, err := NewBoardLoader(path).LoadBoard(context.Background(), "march-8")
	if err != nil {
		t.Fatalf("load board: %v", err)
	}
	if len(board.Rounds) != 2 || board.Rounds[1].Name != "Final Round" {
		t.Fatalf("unexpected rounds: %+v", board.Rounds)
	}
	q := board.Rounds[0].Topics[0].Questions[1]
	if !q.Wildcard || q.Value != 200 || q.Answer != "Tulip" {
		t.Fatalf("unexpected question: %+v", q)
	}

	if _, err := NewBoardLoader(path).LoadBoard(context.Background(), "nope"); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestParseBoardsRejectsEmptyTopic(t *testing.T) {
	data := []byte(`
boards:
  - id: broken
    rounds:
      - name: Round 1
        topics:
          - name: Empty
`)
	if _, err := ParseBoards(data); !errors.Is(err, domain.ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}
