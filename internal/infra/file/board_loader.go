package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"own-game-service/internal/domain"
)

type boardFile struct {
	Boards []domain.Board `yaml:"boards"`
}

// BoardLoader reads boards from a YAML file on every load. Pair it with a
// caching repository.
type BoardLoader struct {
	path string
}

func NewBoardLoader(path string) *BoardLoader {
	return &BoardLoader{path: path}
}

func (l *BoardLoader) LoadBoard(_ context.Context, boardID string) (domain.Board, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Board{}, fmt.Errorf("read boards: %w", err)
	}
	boards, err := ParseBoards(data)
	if err != nil {
		return domain.Board{}, err
	}
	for _, b := range boards {
		if b.ID == boardID {
			return b, nil
		}
	}
	return domain.Board{}, domain.ErrBoardNotFound
}

// ParseBoards decodes and validates a YAML board file.
func ParseBoards(data []byte) ([]domain.Board, error) {
	var f boardFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal boards: %w", err)
	}
	for _, b := range f.Boards {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Boards, nil
}
